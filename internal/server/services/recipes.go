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

// RecipeService creates, lists, shows and deletes recipes.
type RecipeService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRecipeService(db *sql.DB, m repomanager.RepositoryManager) *RecipeService {
	return &RecipeService{db: db, repomanager: m}
}

// Create stores a recipe owned by owner along with its tags and seed
// reviews. Tags are matched by name and created when missing. Either all of
// it is stored or none of it is.
func (s *RecipeService) Create(ctx context.Context, owner auth.Identity, draft models.RecipeDraft) (*models.Recipe, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		Name:         draft.Name,
		Ingredients:  draft.Ingredients,
		Instructions: draft.Instructions,
		UserID:       owner.UserID,
		Owner:        owner.UserName,
		CreatedBy:    owner.UserName,
		Tags:         []string{},
		Reviews:      []*models.Review{},
	}
	if draft.CreatedAt != nil {
		recipe.CreatedAt = *draft.CreatedAt
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recipesRepo := s.repomanager.Recipes(tx)
		tagsRepo := s.repomanager.Tags(tx)
		reviewsRepo := s.repomanager.Reviews(tx)

		var tags []*models.Tag
		for _, name := range uniqueNames(draft.Tags) {
			tag, err := tagsRepo.GetOrCreate(ctx, name)
			if err != nil {
				return fmt.Errorf("error resolving tag %q: %w", name, err)
			}
			tags = append(tags, tag)
		}

		if _, err := recipesRepo.Create(ctx, recipe); err != nil {
			return fmt.Errorf("error creating recipe: %w", err)
		}

		for _, tag := range tags {
			if err := recipesRepo.AttachTag(ctx, recipe.ID, tag.ID); err != nil {
				return fmt.Errorf("error attaching tag %q: %w", tag.Name, err)
			}
			recipe.Tags = append(recipe.Tags, tag.Name)
		}

		for _, content := range draft.Reviews {
			if content == "" {
				continue
			}
			authorID := owner.UserID
			review, err := reviewsRepo.Create(ctx, &models.Review{
				RecipeID: recipe.ID,
				UserID:   &authorID,
				Content:  content,
			})
			if err != nil {
				return fmt.Errorf("error creating review: %w", err)
			}
			review.AuthorName = owner.UserName
			recipe.Reviews = append(recipe.Reviews, review)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

func validateDraft(d models.RecipeDraft) error {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "recipe_name")
	}
	if strings.TrimSpace(d.Ingredients) == "" {
		missing = append(missing, "ingredients")
	}
	if strings.TrimSpace(d.Instructions) == "" {
		missing = append(missing, "instructions")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", common.ErrorValidation, strings.Join(missing, ", "))
	}
	return nil
}

// uniqueNames drops empty and repeated names, keeping first-seen order.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// List returns recipes matching filter, each with its tags and reviews.
// Setting both Name and Search is a validation error.
func (s *RecipeService) List(ctx context.Context, filter models.RecipeFilter) ([]*models.Recipe, error) {
	if filter.Name != "" && filter.Search != "" {
		return nil, fmt.Errorf("%w: provide only one of 'search' or 'name'", common.ErrorValidation)
	}

	list, err := s.repomanager.Recipes(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}

	for _, r := range list {
		if err := s.loadDetails(ctx, r); err != nil {
			return nil, err
		}
	}

	if list == nil {
		list = []*models.Recipe{}
	}
	return list, nil
}

// Get returns one recipe with its tags and reviews.
func (s *RecipeService) Get(ctx context.Context, id int64) (*models.Recipe, error) {
	recipe, err := s.repomanager.Recipes(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error loading recipe: %w", err)
	}
	if err := s.loadDetails(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) loadDetails(ctx context.Context, r *models.Recipe) error {
	tags, err := s.repomanager.Recipes(s.db).ListTags(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("error loading tags: %w", err)
	}
	reviews, err := s.repomanager.Reviews(s.db).ListByRecipe(ctx, r.ID)
	if err != nil {
		return fmt.Errorf("error loading reviews: %w", err)
	}
	r.Tags = tags
	r.Reviews = reviews
	return nil
}

// Delete removes the recipe and its reviews. Tags stay.
func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Recipes(tx).Delete(ctx, id); err != nil {
			return fmt.Errorf("error deleting recipe: %w", err)
		}
		return nil
	})
}
