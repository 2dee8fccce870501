// Package handler はHTTPハンドラーを提供する。
//
// すべてのページはサーバーサイドでレンダリングされる。ユーザー起因の失敗は
// model.AppErrorとして受け取り、元のフォームをエラーバナー付きで再表示する。
// 内部エラーの詳細はログにのみ記録し、ブラウザには渡さない。
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/recipebox/internal/middleware"
	"github.com/hitoshi/recipebox/internal/model"
	"github.com/hitoshi/recipebox/internal/view"
)

const sessionCookieName = middleware.SessionCookieName

// render はビューをレンダリングする。失敗時はログに記録して500を返す。
func render(w http.ResponseWriter, r *http.Request, renderer view.Renderer, status int, name string, data view.Data) {
	if data == nil {
		data = view.Data{}
	}
	if _, ok := data["LoggedIn"]; !ok {
		_, err := middleware.IdentityIDFromContext(r.Context())
		data["LoggedIn"] = err == nil
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := renderer.Render(w, name, data); err != nil {
		slog.Error("failed to render view",
			slog.String("view", name),
			slog.String("error", err.Error()),
		)
	}
}

// appErrorStatus はAppErrorをHTTPステータスコードへ対応付ける。
func appErrorStatus(appErr *model.AppError) int {
	switch appErr.Code {
	case model.ErrCodeValidation, model.ErrCodeFileTooLarge:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case model.ErrCodeDuplicateUser:
		return http.StatusConflict
	case model.ErrCodeProviderError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// asAppError はエラーをAppErrorとして取り出す。
// AppErrorでない内部エラーはログに記録し、一般的なSTORAGE_ERRORへ丸める。
func asAppError(err error) *model.AppError {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	slog.Error("unexpected internal error", slog.String("error", err.Error()))
	return model.NewStorageError()
}
