package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/auth"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
)

// ReviewService adds, lists and removes reviews.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager) *ReviewService {
	return &ReviewService{db: db, repomanager: m}
}

// Create adds a review to the recipe. An anonymous review is stored without
// an author whoever wrote it.
func (s *ReviewService) Create(ctx context.Context, recipeID int64, content string, anonymous bool, author auth.Identity) (*models.Review, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: review content is missing", common.ErrorValidation)
	}

	review := &models.Review{
		RecipeID:    recipeID,
		Content:     content,
		IsAnonymous: anonymous,
	}
	if !anonymous {
		id := author.UserID
		review.UserID = &id
		review.AuthorName = author.UserName
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Recipes(tx).GetByID(ctx, recipeID); err != nil {
			return fmt.Errorf("error loading recipe: %w", err)
		}
		if _, err := s.repomanager.Reviews(tx).Create(ctx, review); err != nil {
			return fmt.Errorf("error creating review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return review, nil
}

// ListForRecipe returns the reviews of the first recipe with exactly this
// name, oldest first.
func (s *ReviewService) ListForRecipe(ctx context.Context, recipeName string) ([]*models.Review, error) {
	recipe, err := s.repomanager.Recipes(s.db).GetByName(ctx, recipeName)
	if err != nil {
		return nil, fmt.Errorf("error loading recipe: %w", err)
	}

	list, err := s.repomanager.Reviews(s.db).ListByRecipe(ctx, recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("error loading reviews: %w", err)
	}

	return list, nil
}

// Delete removes a review on behalf of requester, who must be its author.
// Anonymous reviews have no author and so cannot be removed this way.
func (s *ReviewService) Delete(ctx context.Context, reviewID int64, requester int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Reviews(tx)

		review, err := repo.GetByID(ctx, reviewID)
		if err != nil {
			return fmt.Errorf("error loading review: %w", err)
		}

		if review.UserID == nil || *review.UserID != requester {
			return fmt.Errorf("%w: you are not authorized to delete this review", common.ErrorForbidden)
		}

		if err := repo.Delete(ctx, reviewID); err != nil {
			return fmt.Errorf("error deleting review: %w", err)
		}
		return nil
	})
}
