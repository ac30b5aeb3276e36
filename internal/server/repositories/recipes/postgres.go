package recipes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectRecipe = `SELECT r.id, r.name, r.ingredients, r.instructions, r.created_at,
		 r.user_id, u.username, r.created_by
		 FROM recipes r
		 JOIN users u ON u.id = r.user_id
		 `

// Create inserts recipe and fills in its id and creation time. A zero
// CreatedAt lets the database pick the current time.
func (r *PostgresRepository) Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	query :=
		`INSERT INTO recipes (name, ingredients, instructions, created_at, user_id, created_by)
		 VALUES ($1, $2, $3, COALESCE($4, now()), $5, $6)
		 RETURNING id, created_at
		 `

	var createdAt any
	if !recipe.CreatedAt.IsZero() {
		createdAt = recipe.CreatedAt
	}

	err := r.db.QueryRowContext(ctx, query,
		recipe.Name, recipe.Ingredients, recipe.Instructions, createdAt, recipe.UserID, recipe.CreatedBy).
		Scan(&recipe.ID, &recipe.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return recipe, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Recipe, error) {
	query := selectRecipe + `WHERE r.id = $1`
	return r.getOne(ctx, query, id)
}

// GetByName returns the oldest recipe with exactly this name.
func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Recipe, error) {
	query := selectRecipe + `WHERE r.name = $1
		 ORDER BY r.id
		 LIMIT 1`
	return r.getOne(ctx, query, name)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&recipe.ID, &recipe.Name, &recipe.Ingredients, &recipe.Instructions, &recipe.CreatedAt,
		&recipe.UserID, &recipe.Owner, &recipe.CreatedBy)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return recipe, nil
}

// List returns recipes in id order. Name is an exact match; Search is a
// case-insensitive substring match against the name, the ingredients or
// any tag name. The caller makes sure at most one of them is set.
func (r *PostgresRepository) List(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error) {
	var (
		query string
		args  []any
	)

	switch {
	case filter.Name != "":
		query = selectRecipe + `WHERE r.name = $1
		 ORDER BY r.id`
		args = append(args, filter.Name)
	case filter.Search != "":
		query = selectRecipe + `WHERE r.name ILIKE $1
		    OR r.ingredients ILIKE $1
		    OR EXISTS (
		       SELECT 1 FROM recipe_tags rt
		       JOIN tags t ON t.id = rt.tag_id
		       WHERE rt.recipe_id = r.id AND t.name ILIKE $1)
		 ORDER BY r.id`
		args = append(args, ContainsPattern(filter.Search))
	default:
		query = selectRecipe + `ORDER BY r.id`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Recipe
	for rows.Next() {
		recipe := &models.Recipe{}
		if err := rows.Scan(
			&recipe.ID, &recipe.Name, &recipe.Ingredients, &recipe.Instructions, &recipe.CreatedAt,
			&recipe.UserID, &recipe.Owner, &recipe.CreatedBy); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Delete removes the recipe; its reviews and tag links go with it.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM recipes WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}

// AttachTag links the tag to the recipe. Linking twice is a no-op.
func (r *PostgresRepository) AttachTag(ctx context.Context, recipeID, tagID int64) error {
	query :=
		`INSERT INTO recipe_tags (recipe_id, tag_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, recipeID, tagID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

// ListTags returns the names of the tags on the recipe, sorted.
func (r *PostgresRepository) ListTags(ctx context.Context, recipeID int64) ([]string, error) {
	query :=
		`SELECT t.name FROM tags t
		 JOIN recipe_tags rt ON rt.tag_id = t.id
		 WHERE rt.recipe_id = $1
		 ORDER BY t.name
		 `

	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return names, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns s into an ILIKE pattern matching any string that
// contains s literally.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
