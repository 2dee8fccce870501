package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/recipebox/internal/view"
)

// ContactServiceInterface はお問い合わせハンドラーが必要とするサービスインターフェース。
type ContactServiceInterface interface {
	Create(ctx context.Context, name, email, message string) error
}

// ContactHandler はお問い合わせフォームのHTTPハンドラー。
type ContactHandler struct {
	service  ContactServiceInterface
	renderer view.Renderer
}

// NewContactHandler はContactHandlerを生成する。
func NewContactHandler(service ContactServiceInterface, renderer view.Renderer) *ContactHandler {
	return &ContactHandler{
		service:  service,
		renderer: renderer,
	}
}

// ContactPage はお問い合わせフォームを表示する。認証不要。
// GET /contact
func (h *ContactHandler) ContactPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.renderer, http.StatusOK, "contact", view.Data{"Title": "お問い合わせ"})
}

// Contact はお問い合わせメッセージを受け付ける。認証不要。
// POST /contact
func (h *ContactHandler) Contact(w http.ResponseWriter, r *http.Request) {
	name := r.PostFormValue("name")
	email := r.PostFormValue("email")
	message := r.PostFormValue("formText")

	if err := h.service.Create(r.Context(), name, email, message); err != nil {
		appErr := asAppError(err)
		render(w, r, h.renderer, appErrorStatus(appErr), "contact", view.Data{
			"Title": "お問い合わせ",
			"Error": appErr,
		})
		return
	}

	http.Redirect(w, r, "/sucessContact", http.StatusSeeOther)
}
