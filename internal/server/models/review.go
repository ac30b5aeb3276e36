package models

import "time"

// Review is a comment left on a recipe. UserID is nil for anonymous
// reviews and for reviews whose author has since been deleted.
type Review struct {
	ID          int64
	RecipeID    int64
	UserID      *int64
	Content     string
	IsAnonymous bool
	CreatedAt   time.Time
	// AuthorName is the author's current name, empty when there is none.
	AuthorName string
}

// Reviewer is the name shown next to the review.
func (r *Review) Reviewer() string {
	if r.IsAnonymous || r.UserID == nil || r.AuthorName == "" {
		return "Anonymous"
	}
	return r.AuthorName
}
