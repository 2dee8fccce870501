package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/recipebox/internal/model"
	"github.com/hitoshi/recipebox/internal/recipe"
	"github.com/hitoshi/recipebox/internal/view"
)

// multipartFormOverhead はマルチパートの境界・ヘッダー分の許容量。
// ボディ全体の上限は画像サイズ上限にこの分を加えた値になる。
const multipartFormOverhead = 64 * 1024

// RecipeServiceInterface はレシピハンドラーが必要とするサービスインターフェース。
type RecipeServiceInterface interface {
	Submit(ctx context.Context, form recipe.RecipeForm, upload recipe.FileUpload) (*model.Recipe, error)
	List(ctx context.Context) ([]*model.Recipe, error)
	Get(ctx context.Context, id string) (*model.Recipe, error)
}

// RecipeHandlerConfig はレシピハンドラーの設定。
type RecipeHandlerConfig struct {
	MaxUploadSize int64 // 画像サイズ上限（バイト）
}

// RecipeHandler はレシピ閲覧・投稿のHTTPハンドラー。
type RecipeHandler struct {
	service  RecipeServiceInterface
	renderer view.Renderer
	config   RecipeHandlerConfig
}

// NewRecipeHandler はRecipeHandlerを生成する。
func NewRecipeHandler(service RecipeServiceInterface, renderer view.Renderer, config RecipeHandlerConfig) *RecipeHandler {
	return &RecipeHandler{
		service:  service,
		renderer: renderer,
		config:   config,
	}
}

// ListRecipes はレシピ一覧を表示する。認証不要。
// GET /recipes
func (h *RecipeHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.service.List(r.Context())
	if err != nil {
		appErr := asAppError(err)
		render(w, r, h.renderer, appErrorStatus(appErr), "recipes", view.Data{
			"Title": "レシピ一覧",
			"Error": appErr,
		})
		return
	}

	render(w, r, h.renderer, http.StatusOK, "recipes", view.Data{
		"Title":   "レシピ一覧",
		"Recipes": recipes,
	})
}

// GetRecipe はレシピ詳細を表示する。認証不要。
// GET /recipes/{id}
func (h *RecipeHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		appErr := asAppError(err)
		render(w, r, h.renderer, appErrorStatus(appErr), "recipes", view.Data{
			"Title": "レシピ",
			"Error": appErr,
		})
		return
	}
	if rec == nil {
		render(w, r, h.renderer, http.StatusNotFound, "notfound", view.Data{"Title": "ページが見つかりません"})
		return
	}

	render(w, r, h.renderer, http.StatusOK, "recipe", view.Data{
		"Title":  rec.Title,
		"Recipe": rec,
	})
}

// UploadPage は投稿フォームを表示する。アクセスガードの内側。
// GET /upload
func (h *RecipeHandler) UploadPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, http.StatusOK, "upload", view.Data{"Title": "レシピを投稿"})
}

// Upload はアップロードパイプラインを起動する。アクセスガードの内側。
// POST /upload
func (h *RecipeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// ボディ全体のサイズをHTTP層でも制限する
	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize+multipartFormOverhead)

	if err := r.ParseMultipartForm(h.config.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		appErr := model.NewValidationError("フォームの読み取りに失敗しました")
		if errors.As(err, &maxBytesErr) {
			appErr = model.NewFileTooLargeError(h.config.MaxUploadSize)
		}
		h.renderUploadError(w, r, appErr)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.renderUploadError(w, r, model.NewValidationError("画像ファイルを選択してください"))
		return
	}
	defer file.Close()

	form := recipe.RecipeForm{
		Title:        r.PostFormValue("title"),
		Description:  r.PostFormValue("description"),
		Ingredients:  r.PostFormValue("ingredients"),
		Instructions: r.PostFormValue("instructions"),
	}
	upload := recipe.FileUpload{
		FieldName:   "image",
		Filename:    header.Filename,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      file,
	}

	if _, err := h.service.Submit(r.Context(), form, upload); err != nil {
		h.renderUploadError(w, r, asAppError(err))
		return
	}

	http.Redirect(w, r, "/sucess", http.StatusSeeOther)
}

// renderUploadError は投稿フォームをエラーバナー付きで再表示する。
func (h *RecipeHandler) renderUploadError(w http.ResponseWriter, r *http.Request, appErr *model.AppError) {
	render(w, r, h.renderer, appErrorStatus(appErr), "upload", view.Data{
		"Title": "レシピを投稿",
		"Error": appErr,
	})
}
