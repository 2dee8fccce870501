package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/hitoshi/recipebox/internal/model"
)

// findCookie はレスポンスから指定名のCookieを探す。
func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- ローカル認証 ---

func TestSignin_Success_SetsSessionCookieAndRedirects(t *testing.T) {
	router := NewRouter(newTestDeps(t))

	form := strings.NewReader("username=chef1&password=password123")
	req := httptest.NewRequest(http.MethodPost, "/signin", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	// ログイン成功後は保護されたアップロードページへ進む
	if loc := resp.Header.Get("Location"); loc != "/upload" {
		t.Errorf("Location = %q, want %q", loc, "/upload")
	}

	cookie := findCookie(resp, sessionCookieName)
	if cookie == nil {
		t.Fatal("session cookie should be set")
	}
	if cookie.Value != "session-1" {
		t.Errorf("session cookie = %q, want %q", cookie.Value, "session-1")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
}

func TestSignin_InvalidCredentials_RerendersWithGenericError(t *testing.T) {
	deps := newTestDeps(t)
	deps.AuthService = &mockAuthService{
		authenticateLocalFn: func(ctx context.Context, username, password string) (*model.Session, error) {
			return nil, model.NewInvalidCredentialsError()
		},
	}
	router := NewRouter(deps)

	form := strings.NewReader("username=chef1&password=wrong")
	req := httptest.NewRequest(http.MethodPost, "/signin", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), model.NewInvalidCredentialsError().Message) {
		t.Error("response should contain the generic credentials error message")
	}
	if findCookie(resp, sessionCookieName) != nil {
		t.Error("session cookie must not be set on failed signin")
	}
}

func TestRegister_Success_LogsInImmediately(t *testing.T) {
	router := NewRouter(newTestDeps(t))

	form := strings.NewReader("username=chef1&password=password123")
	req := httptest.NewRequest(http.MethodPost, "/register", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/upload" {
		t.Errorf("Location = %q, want %q", loc, "/upload")
	}

	// 登録＝ログイン: セッションCookieが即座に設定される
	cookie := findCookie(resp, sessionCookieName)
	if cookie == nil || cookie.Value != "session-new" {
		t.Error("registration should set a session cookie immediately")
	}
}

func TestRegister_DuplicateUsername_RerendersWithError(t *testing.T) {
	deps := newTestDeps(t)
	deps.AuthService = &mockAuthService{
		registerLocalFn: func(ctx context.Context, username, password string) (*model.Session, error) {
			return nil, model.NewDuplicateUserError(username)
		},
	}
	router := NewRouter(deps)

	form := strings.NewReader("username=chef1&password=password123")
	req := httptest.NewRequest(http.MethodPost, "/register", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusConflict)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "chef1") {
		t.Error("response should mention the duplicated username")
	}
}

// --- Google OAuthフロー ---

func TestGoogleLogin_RedirectsToProviderWithStateCookie(t *testing.T) {
	router := NewRouter(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}

	stateCookie := findCookie(resp, oauthStateCookie)
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("oauth state cookie should be set")
	}

	loc, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("failed to parse redirect URL: %v", err)
	}
	if loc.Query().Get("state") != stateCookie.Value {
		t.Error("redirect state should match the state cookie")
	}
}

func TestGoogleCallback_Success_SetsSessionAndRedirectsToUpload(t *testing.T) {
	router := NewRouter(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/google/upload?code=auth-code&state=state-abc", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "state-abc"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/upload" {
		t.Errorf("Location = %q, want %q", loc, "/upload")
	}

	cookie := findCookie(resp, sessionCookieName)
	if cookie == nil || cookie.Value != "session-oauth" {
		t.Error("session cookie should be set after successful callback")
	}
}

func TestGoogleCallback_StateMismatch_ReturnsBadRequest(t *testing.T) {
	handleCallbackCalled := false
	deps := newTestDeps(t)
	deps.AuthService = &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.Session, error) {
			handleCallbackCalled = true
			return nil, nil
		},
	}
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/upload?code=auth-code&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "state-abc"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
	if handleCallbackCalled {
		t.Error("callback with forged state must not reach the service")
	}
}

func TestGoogleCallback_ProviderError_RerendersSignin(t *testing.T) {
	deps := newTestDeps(t)
	deps.AuthService = &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.Session, error) {
			return nil, model.NewProviderError()
		},
	}
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/upload?code=bad-code&state=state-abc", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "state-abc"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadGateway)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), model.NewProviderError().Message) {
		t.Error("response should contain the provider error message")
	}
}

// --- ログアウト ---

func TestLogout_ClearsCookieAndRedirects(t *testing.T) {
	var loggedOutSession string
	deps := newTestDeps(t)
	deps.AuthService = &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			loggedOutSession = sessionID
			return nil
		},
	}
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "valid-session"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSeeOther)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("Location = %q, want %q", loc, "/")
	}
	if loggedOutSession != "valid-session" {
		t.Errorf("logged out session = %q, want %q", loggedOutSession, "valid-session")
	}

	cookie := findCookie(resp, sessionCookieName)
	if cookie == nil || cookie.MaxAge != -1 {
		t.Error("session cookie should be cleared on logout")
	}
}

func TestLogout_WithoutCookie_StillRedirects(t *testing.T) {
	router := NewRouter(newTestDeps(t))

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusSeeOther)
	}
}
