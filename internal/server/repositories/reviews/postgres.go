package reviews

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

const selectReview = `SELECT rv.id, rv.recipe_id, rv.user_id, rv.content, rv.is_anonymous, rv.created_at,
		 COALESCE(u.username, '')
		 FROM reviews rv
		 LEFT JOIN users u ON u.id = rv.user_id
		 `

// Create inserts review and fills in its id and creation time. Anonymous
// reviews are always stored without an author.
func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	query :=
		`INSERT INTO reviews (recipe_id, user_id, content, is_anonymous)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	if review.IsAnonymous {
		review.UserID = nil
	}

	var userID sql.NullInt64
	if review.UserID != nil {
		userID = sql.NullInt64{Int64: *review.UserID, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query, review.RecipeID, userID, review.Content, review.IsAnonymous).
		Scan(&review.ID, &review.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return review, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Review, error) {
	query := selectReview + `WHERE rv.id = $1`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return review, nil
}

// ListByRecipe returns the recipe's reviews in the order they were written.
func (r *PostgresRepository) ListByRecipe(ctx context.Context, recipeID int64) ([]*models.Review, error) {
	query := selectReview + `WHERE rv.recipe_id = $1
		 ORDER BY rv.id`

	rows, err := r.db.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Review{}
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM reviews WHERE id = $1`

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

type scanner interface {
	Scan(dest ...any) error
}

func scanReview(s scanner) (*models.Review, error) {
	review := &models.Review{}
	var userID sql.NullInt64

	if err := s.Scan(&review.ID, &review.RecipeID, &userID, &review.Content,
		&review.IsAnonymous, &review.CreatedAt, &review.AuthorName); err != nil {
		return nil, err
	}

	if userID.Valid {
		id := userID.Int64
		review.UserID = &id
	}

	return review, nil
}
