package reviews

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	ListByRecipe(ctx context.Context, recipeID int64) ([]*models.Review, error)
	Delete(ctx context.Context, id int64) error
}
