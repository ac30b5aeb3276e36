package api

import "time"

type Recipe struct {
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

// NewRecipe is the payload of CreateRecipe.
type NewRecipe struct {
	Name         string
	Ingredients  string
	Instructions string
	Tags         []string
	Reviews      []string
}

type Tag struct {
	ID      int64    `json:"id"`
	Name    string   `json:"tag_name"`
	Recipes []string `json:"associated_recipes"`
}

type Review struct {
	ID          int64  `json:"review_id"`
	Content     string `json:"review_content"`
	IsAnonymous bool   `json:"is_anonymous"`
	Reviewer    string `json:"reviewer"`
}

// Session is what a successful login yields.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
