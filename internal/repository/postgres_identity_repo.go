package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hitoshi/recipebox/internal/model"
)

// uniqueViolation はPostgreSQLの一意制約違反エラーコード。
const uniqueViolation = "23505"

// PostgresIdentityRepo はPostgreSQLを使用したIdentityリポジトリ。
type PostgresIdentityRepo struct {
	db *sql.DB
}

// NewPostgresIdentityRepo はPostgresIdentityRepoを生成する。
func NewPostgresIdentityRepo(db *sql.DB) *PostgresIdentityRepo {
	return &PostgresIdentityRepo{db: db}
}

// FindByUsername はローカル認証のユーザー名でIdentityを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresIdentityRepo) FindByUsername(ctx context.Context, username string) (*model.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, provider, provider_user_id, created_at
		 FROM identities
		 WHERE username = $1`,
		username,
	)
	return scanIdentity(row)
}

// FindByID は指定IDのIdentityを取得する。見つからない場合はnilを返す。
func (r *PostgresIdentityRepo) FindByID(ctx context.Context, id string) (*model.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, provider, provider_user_id, created_at
		 FROM identities
		 WHERE id = $1`,
		id,
	)
	return scanIdentity(row)
}

// CreateLocal はローカル認証のIdentityを作成する。
// ユーザー名が既に存在する場合はErrDuplicateUsernameを返す。
func (r *PostgresIdentityRepo) CreateLocal(ctx context.Context, identity *model.Identity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO identities (id, username, email, password_hash, provider, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		identity.ID, identity.Username, identity.Email, identity.PasswordHash,
		model.ProviderLocal, identity.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateUsername
		}
		return fmt.Errorf("failed to insert identity: %w", err)
	}
	return nil
}

// FindOrCreateByProvider は(provider, provider_user_id)でIdentityを検索し、
// 存在しなければ作成する。INSERT ... ON CONFLICT DO NOTHINGにより、
// 同一subject IDの同時呼び出しでも重複レコードは作成されない。
func (r *PostgresIdentityRepo) FindOrCreateByProvider(ctx context.Context, identity *model.Identity) (*model.Identity, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO identities (id, email, provider, provider_user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (provider, provider_user_id) WHERE provider_user_id IS NOT NULL DO NOTHING
		 RETURNING id, username, email, password_hash, provider, provider_user_id, created_at`,
		identity.ID, identity.Email, identity.Provider, identity.ProviderUserID, identity.CreatedAt,
	)

	created, err := scanIdentity(row)
	if err != nil {
		return nil, err
	}
	if created != nil {
		// INSERTが成功した（新規Identity）
		return created, nil
	}

	// 競合した: 既存のIdentityを取得する
	row = r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, provider, provider_user_id, created_at
		 FROM identities
		 WHERE provider = $1 AND provider_user_id = $2`,
		identity.Provider, identity.ProviderUserID,
	)
	existing, err := scanIdentity(row)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("identity vanished after conflicting insert: provider=%s", identity.Provider)
	}
	return existing, nil
}

// scanIdentity は1行分のidentitiesレコードをスキャンする。
// 行が存在しない場合は(nil, nil)を返す。
func scanIdentity(row *sql.Row) (*model.Identity, error) {
	identity := &model.Identity{}
	var username, providerUserID sql.NullString
	var passwordHash []byte

	err := row.Scan(
		&identity.ID, &username, &identity.Email, &passwordHash,
		&identity.Provider, &providerUserID, &identity.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan identity: %w", err)
	}

	identity.Username = username.String
	identity.ProviderUserID = providerUserID.String
	identity.PasswordHash = passwordHash
	return identity, nil
}

// compile-time interface check
var _ IdentityRepository = (*PostgresIdentityRepo)(nil)
