package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/recipebox/internal/model"
)

// PostgresRecipeRepo はPostgreSQLを使用したレシピリポジトリ。
type PostgresRecipeRepo struct {
	db *sql.DB
}

// NewPostgresRecipeRepo はPostgresRecipeRepoを生成する。
func NewPostgresRecipeRepo(db *sql.DB) *PostgresRecipeRepo {
	return &PostgresRecipeRepo{db: db}
}

// Create はレシピを作成する。単一のINSERTで全フィールドを書き込む。
func (r *PostgresRecipeRepo) Create(ctx context.Context, recipe *model.Recipe) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO recipes (id, title, description, ingredients, instructions, image_url, image_file, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		recipe.ID, recipe.Title, recipe.Description, recipe.Ingredients,
		recipe.Instructions, recipe.ImageURL, recipe.ImageFile, recipe.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert recipe: %w", err)
	}
	return nil
}

// FindByID は指定IDのレシピを取得する。見つからない場合はnilを返す。
func (r *PostgresRecipeRepo) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	recipe := &model.Recipe{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, ingredients, instructions, image_url, image_file, created_at
		 FROM recipes
		 WHERE id = $1`,
		id,
	).Scan(
		&recipe.ID, &recipe.Title, &recipe.Description, &recipe.Ingredients,
		&recipe.Instructions, &recipe.ImageURL, &recipe.ImageFile, &recipe.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find recipe: %w", err)
	}

	return recipe, nil
}

// List は全レシピを作成日時の降順で返す。
func (r *PostgresRecipeRepo) List(ctx context.Context) ([]*model.Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, description, ingredients, instructions, image_url, image_file, created_at
		 FROM recipes
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*model.Recipe
	for rows.Next() {
		recipe := &model.Recipe{}
		if err := rows.Scan(
			&recipe.ID, &recipe.Title, &recipe.Description, &recipe.Ingredients,
			&recipe.Instructions, &recipe.ImageURL, &recipe.ImageFile, &recipe.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	return recipes, nil
}

// compile-time interface check
var _ RecipeRepository = (*PostgresRecipeRepo)(nil)
