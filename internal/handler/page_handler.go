package handler

import (
	"net/http"

	"github.com/hitoshi/recipebox/internal/view"
)

// PageHandler は静的ページのHTTPハンドラー。
type PageHandler struct {
	renderer view.Renderer
}

// NewPageHandler はPageHandlerを生成する。
func NewPageHandler(renderer view.Renderer) *PageHandler {
	return &PageHandler{renderer: renderer}
}

// Home はトップページを表示する。
// GET /
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, http.StatusOK, "home", view.Data{"Title": "ホーム"})
}

// About はサイト紹介ページを表示する。
// GET /about
func (h *PageHandler) About(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, http.StatusOK, "about", view.Data{"Title": "このサイトについて"})
}

// UploadSuccess はレシピ投稿完了ページを表示する。
// GET /sucess
func (h *PageHandler) UploadSuccess(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, http.StatusOK, "sucess", view.Data{"Title": "投稿完了"})
}

// ContactSuccess はお問い合わせ完了ページを表示する。
// GET /sucessContact
func (h *PageHandler) ContactSuccess(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, http.StatusOK, "sucessContact", view.Data{"Title": "送信完了"})
}

// RedirectHome はトップページへリダイレクトする。
// POST /sucess, POST /sucessContact
func (h *PageHandler) RedirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// NotFound は404ページを表示する。
func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, http.StatusNotFound, "notfound", view.Data{"Title": "ページが見つかりません"})
}
