// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hitoshi/recipebox/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityIDContextKey はリクエストコンテキストにIdentity IDを格納するためのキー。
var identityIDContextKey = contextKey("identity_id")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// NewSessionMiddleware はHTTP Only CookieからセッションIDを読み取り、
// 有効な場合に認証済みIdentity IDをリクエストコンテキストに注入する
// ミドルウェアを返す。セッションの解決はリクエストごとに1回だけ行い、
// 以降のハンドラーはコンテキストの値のみを参照する。
// 未認証でもリクエストは拒否しない（公開ページと認証ページが混在するため）。
func NewSessionMiddleware(sessionFinder SessionFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessionFinder.FindByID(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to find session",
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}
			if session == nil {
				// 期限切れまたは破棄済みのセッション。未認証として扱う。
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityIDContextKey, session.IdentityID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLogin は未認証リクエストをサインインページへリダイレクトするガード。
// セッションミドルウェアの内側で使用する。
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := IdentityIDFromContext(r.Context()); err != nil {
			http.Redirect(w, r, "/signin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// IdentityIDFromContext はリクエストコンテキストからIdentity IDを取得する。
// セッションミドルウェアで認証されたリクエストでのみ有効。
func IdentityIDFromContext(ctx context.Context) (string, error) {
	identityID, ok := ctx.Value(identityIDContextKey).(string)
	if !ok || identityID == "" {
		return "", fmt.Errorf("identity ID not found in context")
	}
	return identityID, nil
}

// ContextWithIdentityID はコンテキストにIdentity IDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentityID(ctx context.Context, identityID string) context.Context {
	return context.WithValue(ctx, identityIDContextKey, identityID)
}
