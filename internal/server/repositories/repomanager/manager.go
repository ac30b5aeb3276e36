package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/recipes"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/tags"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Recipes(db dbx.DBTX) recipes.Repository
	Tags(db dbx.DBTX) tags.Repository
	Reviews(db dbx.DBTX) reviews.Repository
}
