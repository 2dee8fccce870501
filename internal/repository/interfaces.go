// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/recipebox/internal/model"
)

// ErrDuplicateUsername は登録しようとしたユーザー名が既に存在することを示す。
// DBの一意制約違反から変換される。
var ErrDuplicateUsername = errors.New("username already exists")

// IdentityRepository は認証アカウントの永続化インターフェース。
type IdentityRepository interface {
	// FindByUsername はローカル認証のユーザー名でIdentityを検索する。
	// 見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.Identity, error)

	// FindByID は指定IDのIdentityを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Identity, error)

	// CreateLocal はローカル認証のIdentityを作成する。
	// ユーザー名が既に存在する場合はErrDuplicateUsernameを返す。
	CreateLocal(ctx context.Context, identity *model.Identity) error

	// FindOrCreateByProvider は(provider, provider_user_id)でIdentityを検索し、
	// 存在しなければ作成する。同一subject IDの同時呼び出しでも重複レコードは
	// 作成されない（DBの一意制約による原子的なfind-or-create）。
	FindOrCreateByProvider(ctx context.Context, identity *model.Identity) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しないIDでもエラーにならない（冪等）。
	DeleteByID(ctx context.Context, id string) error
}

// RecipeRepository はレシピデータの永続化インターフェース。
type RecipeRepository interface {
	// Create はレシピを作成する。
	// アップロードパイプラインの最終ステップでのみ呼ばれる（画像URL確定後）。
	Create(ctx context.Context, recipe *model.Recipe) error
	// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
	// List は全レシピを作成日時の降順で返す。
	List(ctx context.Context) ([]*model.Recipe, error)
}

// ContactMessageRepository は問い合わせメッセージの永続化インターフェース。
// このシステムからは書き込み専用。
type ContactMessageRepository interface {
	// Create は問い合わせメッセージを作成する。
	Create(ctx context.Context, msg *model.ContactMessage) error
}
