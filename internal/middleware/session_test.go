package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/recipebox/internal/model"
)

// --- モック定義 ---

type mockSessionFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.Session, error)
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

var _ SessionFinder = (*mockSessionFinder)(nil)

// --- セッション解決 ---

func TestSessionMiddleware_ValidCookie_InjectsIdentityID(t *testing.T) {
	finder := &mockSessionFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			if id != "valid-session" {
				t.Errorf("session ID = %q, want %q", id, "valid-session")
			}
			return &model.Session{
				ID:         id,
				IdentityID: "identity-1",
				ExpiresAt:  time.Now().Add(time.Hour),
			}, nil
		},
	}

	var captured string
	handler := NewSessionMiddleware(finder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = IdentityIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
	if captured != "identity-1" {
		t.Errorf("identity ID = %q, want %q", captured, "identity-1")
	}
}

func TestSessionMiddleware_NoCookie_PassesThroughUnauthenticated(t *testing.T) {
	finderCalled := false
	finder := &mockSessionFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			finderCalled = true
			return nil, nil
		},
	}

	handlerCalled := false
	handler := NewSessionMiddleware(finder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		if _, err := IdentityIDFromContext(r.Context()); err == nil {
			t.Error("identity ID should not be present without a cookie")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("public request without cookie should reach the handler")
	}
	if finderCalled {
		t.Error("session lookup should be skipped without a cookie")
	}
}

func TestSessionMiddleware_ExpiredSession_PassesThroughUnauthenticated(t *testing.T) {
	finder := &mockSessionFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, nil // 期限切れは存在しない扱い
		},
	}

	handler := NewSessionMiddleware(finder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := IdentityIDFromContext(r.Context()); err == nil {
			t.Error("identity ID should not be present for expired session")
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestSessionMiddleware_FinderError_PassesThroughUnauthenticated(t *testing.T) {
	finder := &mockSessionFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, errors.New("db unreachable")
		},
	}

	handlerCalled := false
	handler := NewSessionMiddleware(finder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/recipes", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "some-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("handler should still be reached when session lookup fails")
	}
}

// --- アクセスガード ---

func TestRequireLogin_Unauthenticated_RedirectsToSignin(t *testing.T) {
	handlerCalled := false
	handler := RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/signin" {
		t.Errorf("Location = %q, want %q", loc, "/signin")
	}
	if handlerCalled {
		t.Error("guarded handler must not run for unauthenticated request")
	}
}

func TestRequireLogin_Authenticated_CallsHandler(t *testing.T) {
	handlerCalled := false
	handler := RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/upload", nil)
	req = req.WithContext(ContextWithIdentityID(req.Context(), "identity-1"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if !handlerCalled {
		t.Error("guarded handler should run for authenticated request")
	}
	if w.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}
}

func TestRequireLogin_GuardsBothMethods(t *testing.T) {
	// GET /upload と POST /upload の両方が同じガードで保護される
	for _, method := range []string{http.MethodGet, http.MethodPost} {
		handler := RequireLogin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(method, "/upload", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Result().StatusCode != http.StatusSeeOther {
			t.Errorf("%s /upload status = %d, want %d", method, w.Result().StatusCode, http.StatusSeeOther)
		}
	}
}

// --- コンテキストヘルパー ---

func TestIdentityIDFromContext_Missing_ReturnsError(t *testing.T) {
	if _, err := IdentityIDFromContext(context.Background()); err == nil {
		t.Error("expected error for missing identity ID")
	}
}

func TestContextWithIdentityID_RoundTrip(t *testing.T) {
	ctx := ContextWithIdentityID(context.Background(), "identity-9")
	got, err := IdentityIDFromContext(ctx)
	if err != nil {
		t.Fatalf("IdentityIDFromContext returned error: %v", err)
	}
	if got != "identity-9" {
		t.Errorf("identity ID = %q, want %q", got, "identity-9")
	}
}
