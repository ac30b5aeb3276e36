package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/dbx"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
	"github.com/dmitrijs2005/recipebox/internal/server/repositories/repomanager"
)

// TagService manages tags directly. Unlike recipe creation it never reuses
// an existing tag name.
type TagService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTagService(db *sql.DB, m repomanager.RepositoryManager) *TagService {
	return &TagService{db: db, repomanager: m}
}

var errTagNameMissing = fmt.Errorf("%w: tag name is missing", common.ErrorValidation)

// Create makes a new tag and attaches it to the recipe.
func (s *TagService) Create(ctx context.Context, recipeID int64, name string) (*models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errTagNameMissing
	}

	var tag *models.Tag
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recipesRepo := s.repomanager.Recipes(tx)

		if _, err := recipesRepo.GetByID(ctx, recipeID); err != nil {
			return fmt.Errorf("error loading recipe: %w", err)
		}

		var err error
		tag, err = s.repomanager.Tags(tx).Create(ctx, name)
		if errors.Is(err, common.ErrorConflict) {
			return fmt.Errorf("%w: tag name already exists", common.ErrorConflict)
		}
		if err != nil {
			return fmt.Errorf("error creating tag: %w", err)
		}

		if err := recipesRepo.AttachTag(ctx, recipeID, tag.ID); err != nil {
			return fmt.Errorf("error attaching tag: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tag, nil
}

// Get returns the tag with the names of the recipes that carry it.
func (s *TagService) Get(ctx context.Context, id int64) (*models.Tag, error) {
	repo := s.repomanager.Tags(s.db)

	tag, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading tag: %w", err)
	}

	tag.Recipes, err = repo.ListRecipeNames(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading tag recipes: %w", err)
	}

	return tag, nil
}

func (s *TagService) Rename(ctx context.Context, id int64, name string) error {
	if strings.TrimSpace(name) == "" {
		return errTagNameMissing
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := s.repomanager.Tags(tx).Rename(ctx, id, name)
		if errors.Is(err, common.ErrorConflict) {
			return fmt.Errorf("%w: tag name already exists", common.ErrorConflict)
		}
		if err != nil {
			return fmt.Errorf("error renaming tag: %w", err)
		}
		return nil
	})
}

// Delete removes the tag from every recipe and then the tag itself.
func (s *TagService) Delete(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Tags(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting tag: %w", err)
		}
		return nil
	})
}
