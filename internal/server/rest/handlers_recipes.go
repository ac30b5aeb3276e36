package rest

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/auth"
	"github.com/dmitrijs2005/recipebox/internal/server/models"
)

const createdAtLayout = "2006-01-02 15:04:05"

type tagRef struct {
	TagName string `json:"tag_name"`
}

type seedReview struct {
	Content string `json:"content"`
}

type createRecipeRequest struct {
	Name         string       `json:"recipe_name"`
	Ingredients  string       `json:"ingredients"`
	Instructions string       `json:"instructions"`
	CreatedAt    *time.Time   `json:"created_at,omitempty"`
	Tags         []tagRef     `json:"tags"`
	Reviews      []seedReview `json:"reviews"`
}

func (req createRecipeRequest) draft() models.RecipeDraft {
	d := models.RecipeDraft{
		Name:         req.Name,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CreatedAt:    req.CreatedAt,
	}
	for _, t := range req.Tags {
		d.Tags = append(d.Tags, t.TagName)
	}
	for _, rv := range req.Reviews {
		d.Reviews = append(d.Reviews, rv.Content)
	}
	return d
}

type createRecipeResponse struct {
	Message  string `json:"message"`
	RecipeID int64  `json:"recipe_id"`
}

type recipeResponse struct {
	ID           int64    `json:"recipe_id"`
	Name         string   `json:"recipe_name"`
	Ingredients  string   `json:"ingredients"`
	Instructions string   `json:"instructions"`
	CreatedAt    string   `json:"created_at"`
	User         string   `json:"user"`
	CreatedBy    string   `json:"created_by"`
	Tags         []string `json:"tags"`
	Reviews      []string `json:"reviews"`
}

type recipeListResponse struct {
	Recipes []recipeResponse `json:"recipes"`
}

func toRecipeResponse(r *models.Recipe) recipeResponse {
	resp := recipeResponse{
		ID:           r.ID,
		Name:         r.Name,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		CreatedAt:    r.CreatedAt.UTC().Format(createdAtLayout),
		User:         r.Owner,
		CreatedBy:    r.CreatedBy,
		Tags:         r.Tags,
		Reviews:      make([]string, 0, len(r.Reviews)),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	for _, rv := range r.Reviews {
		resp.Reviews = append(resp.Reviews, rv.Content)
	}
	return resp
}

var recipeText = errorText{
	validation: "Missing required fields",
	notFound:   "Recipe not found",
}

func (s *Server) createRecipe(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	var req createRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	recipe, err := s.recipes.Create(r.Context(), id, req.draft())
	if err != nil {
		s.writeError(w, r, err, recipeText)
		return
	}

	writeJSON(w, http.StatusCreated, createRecipeResponse{Message: "Recipe created successfully", RecipeID: recipe.ID})
}

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	q := r.URL.Query()
	filter := models.RecipeFilter{Name: q.Get("name"), Search: q.Get("search")}
	if filter.Name != "" && filter.Search != "" {
		err := fmt.Errorf("%w: both filters given", common.ErrorValidation)
		s.writeError(w, r, err, errorText{validation: "Please provide only one of 'search' or 'name' parameters."})
		return
	}

	recipes, err := s.recipes.List(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	resp := recipeListResponse{Recipes: make([]recipeResponse, 0, len(recipes))}
	for _, rc := range recipes {
		resp.Recipes = append(resp.Recipes, toRecipeResponse(rc))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	recipe, err := s.recipes.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, recipeText)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponse(recipe))
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	if err := s.recipes.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, recipeText)
		return
	}

	writeMessage(w, http.StatusOK, "Recipe deleted successfully")
}
