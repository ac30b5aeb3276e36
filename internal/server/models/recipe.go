package models

import "time"

// Recipe is a stored recipe together with the data shown alongside it.
type Recipe struct {
	ID           int64
	Name         string
	Ingredients  string
	Instructions string
	CreatedAt    time.Time
	// UserID is the owner. The owning user's current name is loaded into
	// Owner; CreatedBy keeps the name they had when the recipe was made.
	UserID    int64
	Owner     string
	CreatedBy string

	Tags    []string
	Reviews []*Review
}

// RecipeDraft is what a client submits to create a recipe. Tags are tag
// names; Reviews are seed review texts attributed to the owner.
type RecipeDraft struct {
	Name         string
	Ingredients  string
	Instructions string
	Tags         []string
	Reviews      []string
	// CreatedAt overrides the creation time when set.
	CreatedAt *time.Time
}

// RecipeFilter narrows a recipe listing. At most one field may be set.
type RecipeFilter struct {
	// Name matches the recipe name exactly.
	Name string
	// Search matches case-insensitively against name, ingredients and tag names.
	Search string
}
