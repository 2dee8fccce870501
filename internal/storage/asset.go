package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AssetStore はリモートアセットホストへの画像保存のインターフェース。
type AssetStore interface {
	// Upload はオブジェクトを保存し、公開URLを返す。
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Delete はオブジェクトを削除する。
	Delete(ctx context.Context, key string) error
}

// MinioAssetStoreConfig はMinioAssetStoreの設定。
type MinioAssetStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// PublicBaseURL が設定されている場合、公開URLは PublicBaseURL/key になる。
	// 未設定の場合はエンドポイントとバケット名から組み立てる。
	PublicBaseURL string
}

// MinioAssetStore はS3互換オブジェクトストレージをアセットホストとして使う実装。
type MinioAssetStore struct {
	client *minio.Client
	config MinioAssetStoreConfig
}

// NewMinioAssetStore はアセットホストへ接続し、バケットの存在を保証する。
func NewMinioAssetStore(config MinioAssetStoreConfig) (*MinioAssetStore, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init asset host client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &MinioAssetStore{client: client, config: config}, nil
}

// Upload はオブジェクトを保存し、公開URLを返す。
// コンテキストのタイムアウト・キャンセルはそのままminioクライアントに伝播する。
func (m *MinioAssetStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.config.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return m.publicURL(key), nil
}

// Delete はオブジェクトを削除する。
func (m *MinioAssetStore) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.config.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

// publicURL はオブジェクトキーから公開URLを組み立てる。
func (m *MinioAssetStore) publicURL(key string) string {
	if m.config.PublicBaseURL != "" {
		return strings.TrimSuffix(m.config.PublicBaseURL, "/") + "/" + key
	}
	scheme := "http"
	if m.config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.config.Endpoint, m.config.Bucket, key)
}

// compile-time interface check
var _ AssetStore = (*MinioAssetStore)(nil)
