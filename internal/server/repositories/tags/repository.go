package tags

import (
	"context"

	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, name string) (*models.Tag, error)
	GetOrCreate(ctx context.Context, name string) (*models.Tag, error)
	GetByID(ctx context.Context, id int64) (*models.Tag, error)
	GetByName(ctx context.Context, name string) (*models.Tag, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	ListRecipeNames(ctx context.Context, tagID int64) ([]string, error)
}
