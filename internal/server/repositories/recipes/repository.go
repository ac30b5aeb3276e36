package recipes

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	GetByID(ctx context.Context, id int64) (*models.Recipe, error)
	GetByName(ctx context.Context, name string) (*models.Recipe, error)
	List(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error)
	Delete(ctx context.Context, id int64) error

	AttachTag(ctx context.Context, recipeID, tagID int64) error
	ListTags(ctx context.Context, recipeID int64) ([]string, error)
}
