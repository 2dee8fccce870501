// Package auth はローカル認証、OAuth認証フロー、セッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/recipebox/internal/model"
	"github.com/hitoshi/recipebox/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	Provider       string // "google" 等
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（Google, GitHub等）に対応するための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
// ローカル認証（ユーザー名＋パスワード）とフェデレーション認証（OAuth）の
// 2系統のフローを持ち、成功時はどちらもセッションを発行する。
type Service struct {
	oauth       OAuthProvider
	identRepo   repository.IdentityRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	identRepo repository.IdentityRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		identRepo:   identRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// RegisterLocal はローカルアカウントを登録し、セッションを発行する（登録＝ログイン）。
// ユーザー名が既に存在する場合はDUPLICATE_USER、入力不備の場合はVALIDATION_ERRORを返す。
func (s *Service) RegisterLocal(ctx context.Context, username, password string) (*model.Session, error) {
	if username == "" {
		return nil, model.NewValidationError("ユーザー名を入力してください")
	}
	if len(password) < 8 {
		return nil, model.NewValidationError("パスワードは8文字以上で入力してください")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	identity := &model.Identity{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		Provider:     model.ProviderLocal,
		CreatedAt:    time.Now(),
	}

	if err := s.identRepo.CreateLocal(ctx, identity); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, model.NewDuplicateUserError(username)
		}
		return nil, fmt.Errorf("failed to create identity: %w", err)
	}

	slog.Info("local user registered",
		slog.String("identity_id", identity.ID),
	)

	session, err := s.createSession(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// AuthenticateLocal はユーザー名とパスワードでローカル認証を行い、セッションを発行する。
// 失敗時は常にINVALID_CREDENTIALSを返し、ユーザー名の存在有無を漏らさない。
func (s *Service) AuthenticateLocal(ctx context.Context, username, password string) (*model.Session, error) {
	identity, err := s.identRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	if identity == nil {
		// ユーザーが存在しない場合もbcrypt比較を1回実行し、応答時間を揃える
		VerifyPassword(dummyPasswordHash, password)
		return nil, model.NewInvalidCredentialsError()
	}

	if !VerifyPassword(identity.PasswordHash, password) {
		return nil, model.NewInvalidCredentialsError()
	}

	slog.Info("local user authenticated",
		slog.String("identity_id", identity.ID),
	)

	session, err := s.createSession(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
// 未登録のsubject IDの場合はIdentityを自動作成する。find-or-createは
// DBの一意制約により原子的で、同一subject IDの同時ログインでも重複は生じない。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		slog.Error("oauth code exchange failed", slog.String("error", err.Error()))
		return nil, model.NewProviderError()
	}

	identity, err := s.identRepo.FindOrCreateByProvider(ctx, &model.Identity{
		ID:             uuid.New().String(),
		Email:          userInfo.Email,
		Provider:       userInfo.Provider,
		ProviderUserID: userInfo.ProviderUserID,
		CreatedAt:      time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find or create identity: %w", err)
	}

	slog.Info("federated user logged in",
		slog.String("identity_id", identity.ID),
		slog.String("provider", userInfo.Provider),
	)

	session, err := s.createSession(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// Logout はセッションを破棄する。冪等で、既に存在しないセッションIDでもエラーにならない。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// IdentityFromSession はセッションIDから現在のIdentityを取得する。
// セッションが無効・期限切れ・Identityが存在しない場合はnilを返す。
func (s *Service) IdentityFromSession(ctx context.Context, sessionID string) (*model.Identity, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	identity, err := s.identRepo.FindByID(ctx, session.IdentityID)
	if err != nil {
		return nil, fmt.Errorf("failed to find identity: %w", err)
	}

	return identity, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, identityID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:         sessionID,
		IdentityID: identityID,
		ExpiresAt:  time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt:  time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
