// Package model はドメインモデルを定義する。
package model

import "time"

// 認証プロバイダー種別。
const (
	// ProviderLocal はユーザー名とパスワードによるローカル認証を示す。
	ProviderLocal = "local"
	// ProviderGoogle はGoogle OAuthによるフェデレーション認証を示す。
	ProviderGoogle = "google"
)

// Identity は認証可能な1人のユーザーを表す。
// ローカル認証（Username + PasswordHash）とフェデレーション認証
// （Provider + ProviderUserID）のいずれか一方のみを保持する。
// 両者を後からリンクすることはしない（ローカルとフェデレーションは別Identity）。
type Identity struct {
	ID             string
	Username       string // ローカル認証のユーザー名。フェデレーションの場合は空
	Email          string
	PasswordHash   []byte // bcryptハッシュ。フェデレーションの場合はnil
	Provider       string // "local" または "google"
	ProviderUserID string // IdPのsubject ID。ローカルの場合は空
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
// IDは暗号的に安全な不透明トークンで、Cookie経由でブラウザに渡される。
type Session struct {
	ID         string
	IdentityID string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
