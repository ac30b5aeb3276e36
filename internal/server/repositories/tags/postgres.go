package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// Create inserts a new tag. An existing name yields common.ErrorConflict.
func (r *PostgresRepository) Create(ctx context.Context, name string) (*models.Tag, error) {
	query :=
		`INSERT INTO tags (name)
		 VALUES ($1)
		 RETURNING id
		 `

	tag := &models.Tag{Name: name}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&tag.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tag, nil
}

// GetOrCreate returns the tag with this name, inserting it first if needed.
// The no-op update makes RETURNING yield the id of an existing row too.
func (r *PostgresRepository) GetOrCreate(ctx context.Context, name string) (*models.Tag, error) {
	query :=
		`INSERT INTO tags (name)
		 VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id
		 `

	tag := &models.Tag{Name: name}
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&tag.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tag, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Tag, error) {
	query := `SELECT id, name FROM tags WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	query := `SELECT id, name FROM tags WHERE name = $1`
	return r.getOne(ctx, query, name)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Tag, error) {
	tag := &models.Tag{}
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&tag.ID, &tag.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tag, nil
}

func (r *PostgresRepository) Rename(ctx context.Context, id int64, name string) error {
	query := `UPDATE tags SET name = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, name, id)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorConflict
		}
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(res)
}

// Delete removes the tag and its recipe links. Recipes are untouched.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tags WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// ListRecipeNames returns the names of recipes carrying the tag, oldest first.
func (r *PostgresRepository) ListRecipeNames(ctx context.Context, tagID int64) ([]string, error) {
	query :=
		`SELECT r.name FROM recipes r
		 JOIN recipe_tags rt ON rt.recipe_id = r.id
		 WHERE rt.tag_id = $1
		 ORDER BY r.id
		 `

	rows, err := r.db.QueryContext(ctx, query, tagID)
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
