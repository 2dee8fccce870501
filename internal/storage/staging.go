// Package storage はアップロード画像のローカルステージングと
// リモートアセットホスト（S3互換オブジェクトストレージ）への保存を提供する。
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// StagedFile はローカルにステージングされたアップロードファイルを表す。
type StagedFile struct {
	Name string // ステージング先のファイル名
	Path string // ステージング先の絶対パスまたは相対パス
	Size int64  // 書き込んだバイト数
}

// LocalStaging はアップロードファイルを一時的にローカルディスクへ保存する。
// ステージング領域は中間置き場であり、画像の正本はアセットホスト側に置く。
type LocalStaging struct {
	dir string
}

// NewLocalStaging はステージングディレクトリを作成してLocalStagingを生成する。
func NewLocalStaging(dir string) (*LocalStaging, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("staging directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &LocalStaging{dir: dir}, nil
}

// Stage はリーダーの内容をステージング領域へ書き込む。
// ファイル名は「フィールド名-ミリ秒タイムスタンプ＋元の拡張子」の形式で衝突を避ける。
func (s *LocalStaging) Stage(fieldName, originalFilename string, r io.Reader) (*StagedFile, error) {
	name := stagedFilename(fieldName, originalFilename, time.Now())
	path := filepath.Join(s.dir, name)

	out, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}
	defer out.Close()

	size, err := io.Copy(out, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write staged file: %w", err)
	}

	return &StagedFile{Name: name, Path: path, Size: size}, nil
}

// Open はステージング済みファイルを読み取り用に開く。
func (s *LocalStaging) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil {
		return nil, fmt.Errorf("failed to open staged file: %w", err)
	}
	return f, nil
}

// Remove はステージング済みファイルを削除する。存在しない場合もエラーにしない。
func (s *LocalStaging) Remove(name string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove staged file: %w", err)
	}
	return nil
}

// stagedFilename はステージング用のファイル名を組み立てる。
// 元のファイル名からは拡張子のみを引き継ぎ、パス要素は捨てる。
func stagedFilename(fieldName, originalFilename string, now time.Time) string {
	ext := filepath.Ext(filepath.Base(originalFilename))
	if fieldName == "" {
		fieldName = "file"
	}
	return fmt.Sprintf("%s-%d%s", fieldName, now.UnixMilli(), ext)
}
