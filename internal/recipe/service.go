// Package recipe はレシピの公開閲覧とアップロードパイプラインを提供する。
//
// アップロードパイプラインは「サイズ検証 → ローカルステージング →
// アセットホストへのアップロード → レシピ永続化」の順序を厳守する。
// アセットホストへのアップロードが失敗した場合、レシピは一切永続化されない。
package recipe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/hitoshi/recipebox/internal/model"
	"github.com/hitoshi/recipebox/internal/repository"
	"github.com/hitoshi/recipebox/internal/storage"
)

// Stager はアップロードファイルのローカルステージングのインターフェース。
type Stager interface {
	// Stage はリーダーの内容をステージング領域へ書き込む。
	Stage(fieldName, originalFilename string, r io.Reader) (*storage.StagedFile, error)
	// Open はステージング済みファイルを読み取り用に開く。
	Open(name string) (io.ReadCloser, error)
}

// RecipeForm はアップロードフォームのテキストフィールドを表す。
type RecipeForm struct {
	Title        string
	Description  string
	Ingredients  string
	Instructions string
}

// FileUpload はアップロードされた画像ファイルを表す。
type FileUpload struct {
	FieldName   string
	Filename    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// Metrics はパイプラインが記録するメトリクスのインターフェース。
type Metrics interface {
	RecordUploadSuccess()
	RecordUploadFailure(reason string)
	RecordAssetLatency(duration time.Duration)
	RecordRecipeCreated()
}

// Sanitizer はユーザー入力テキストのサニタイズのインターフェース。
type Sanitizer interface {
	SanitizePlain(raw string) string
	SanitizeBody(raw string) string
}

// ServiceConfig はレシピサービスの設定。
type ServiceConfig struct {
	MaxUploadSize int64         // アップロードサイズ上限（バイト）
	UploadTimeout time.Duration // アセットホストへのアップロードのタイムアウト
}

// Service はレシピに関するビジネスロジックを提供する。
type Service struct {
	recipeRepo repository.RecipeRepository
	staging    Stager
	assets     storage.AssetStore
	sanitizer  Sanitizer
	metrics    Metrics
	config     ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	recipeRepo repository.RecipeRepository,
	staging Stager,
	assets storage.AssetStore,
	sanitizer Sanitizer,
	metrics Metrics,
	config ServiceConfig,
) *Service {
	return &Service{
		recipeRepo: recipeRepo,
		staging:    staging,
		assets:     assets,
		sanitizer:  sanitizer,
		metrics:    metrics,
		config:     config,
	}
}

// Submit はアップロードパイプラインを実行し、レシピを作成する。
// ステップの順序:
//  1. サイズ上限の検証（いかなるI/Oよりも先）
//  2. ローカルディスクへのステージング
//  3. アセットホストへのアップロード（タイムアウト付き）
//  4. レシピの永続化（単一INSERT）
//
// ステップ3が失敗した場合、レシピは永続化されない。
// ステップ4が失敗した場合、リモートアセットは孤児として残ることを許容する。
func (s *Service) Submit(ctx context.Context, form RecipeForm, upload FileUpload) (*model.Recipe, error) {
	title := s.sanitizer.SanitizePlain(form.Title)
	if title == "" {
		return nil, model.NewValidationError("レシピ名を入力してください")
	}
	if upload.Reader == nil || upload.Filename == "" {
		return nil, model.NewValidationError("画像ファイルを選択してください")
	}
	if upload.Size > s.config.MaxUploadSize {
		s.metrics.RecordUploadFailure("size_limit")
		return nil, model.NewFileTooLargeError(s.config.MaxUploadSize)
	}

	// ステージングより先に残りのテキストもサニタイズしておく
	description := s.sanitizer.SanitizeBody(form.Description)
	ingredients := s.sanitizer.SanitizeBody(form.Ingredients)
	instructions := s.sanitizer.SanitizeBody(form.Instructions)

	staged, err := s.staging.Stage(upload.FieldName, upload.Filename, upload.Reader)
	if err != nil {
		slog.Error("failed to stage upload", slog.String("error", err.Error()))
		s.metrics.RecordUploadFailure("staging")
		return nil, model.NewStorageError()
	}

	imageURL, err := s.uploadToAssetHost(ctx, title, staged, upload.ContentType)
	if err != nil {
		slog.Error("failed to upload to asset host",
			slog.String("staged_file", staged.Name),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordUploadFailure("asset_host")
		return nil, model.NewStorageError()
	}

	rec := &model.Recipe{
		ID:           uuid.New().String(),
		Title:        title,
		Description:  description,
		Ingredients:  ingredients,
		Instructions: instructions,
		ImageURL:     imageURL,
		ImageFile:    staged.Name,
		CreatedAt:    time.Now(),
	}

	if err := s.recipeRepo.Create(ctx, rec); err != nil {
		slog.Error("failed to persist recipe",
			slog.String("image_url", imageURL),
			slog.String("error", err.Error()),
		)
		s.metrics.RecordUploadFailure("persist")
		return nil, model.NewStorageError()
	}

	s.metrics.RecordUploadSuccess()
	s.metrics.RecordRecipeCreated()
	slog.Info("recipe created",
		slog.String("recipe_id", rec.ID),
		slog.String("image_url", imageURL),
	)

	return rec, nil
}

// uploadToAssetHost はステージング済みファイルをアセットホストへアップロードし、公開URLを返す。
// タイムアウトはcontextで伝播し、超過した場合はアップロード失敗として扱う。
func (s *Service) uploadToAssetHost(ctx context.Context, title string, staged *storage.StagedFile, contentType string) (string, error) {
	f, err := s.staging.Open(staged.Name)
	if err != nil {
		return "", fmt.Errorf("failed to open staged file: %w", err)
	}
	defer f.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadCtx, cancel := context.WithTimeout(ctx, s.config.UploadTimeout)
	defer cancel()

	key := assetKey(title, time.Now())
	start := time.Now()
	url, err := s.assets.Upload(uploadCtx, key, f, staged.Size, contentType)
	s.metrics.RecordAssetLatency(time.Since(start))
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	return url, nil
}

// List は全レシピを作成日時の降順で返す。認証不要の公開操作。
func (s *Service) List(ctx context.Context) ([]*model.Recipe, error) {
	recipes, err := s.recipeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Get は指定IDのレシピを取得する。見つからない場合はnilを返す。認証不要の公開操作。
func (s *Service) Get(ctx context.Context, id string) (*model.Recipe, error) {
	rec, err := s.recipeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}
	return rec, nil
}

// assetKey はアセットホスト上の公開IDを組み立てる。
// レシピ名のスラッグにミリ秒タイムスタンプを付けて衝突を避ける。
func assetKey(title string, now time.Time) string {
	return fmt.Sprintf("%s-%d", slugify(title), now.UnixMilli())
}

// slugify はタイトルをURLセーフなスラッグへ変換する。
// 英数字以外はハイフンに置き換え、連続するハイフンはまとめる。
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r) && r < unicode.MaxASCII:
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen && b.Len() > 0 {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "recipe"
	}
	return slug
}

// compile-time interface check
var _ Stager = (*storage.LocalStaging)(nil)

