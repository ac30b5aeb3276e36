package rest

import (
	"net/http"

	"github.com/dmitrijs2005/recipebox/internal/server/auth"
	"github.com/gorilla/mux"
)

type createReviewRequest struct {
	Content   string `json:"review_content"`
	Anonymous bool   `json:"anonymous"`
}

type createReviewResponse struct {
	Message  string `json:"message"`
	ReviewID int64  `json:"review_id"`
}

type reviewResponse struct {
	ID          int64  `json:"review_id"`
	Content     string `json:"review_content"`
	IsAnonymous bool   `json:"is_anonymous"`
	Reviewer    string `json:"reviewer"`
}

type reviewListResponse struct {
	Reviews []reviewResponse `json:"reviews"`
}

func (s *Server) createReview(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	recipeID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	var req createReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	review, err := s.reviews.Create(r.Context(), recipeID, req.Content, req.Anonymous, id)
	if err != nil {
		s.writeError(w, r, err, errorText{validation: "Review content is missing", notFound: "Recipe not found"})
		return
	}

	writeJSON(w, http.StatusCreated, createReviewResponse{Message: "Review added successfully", ReviewID: review.ID})
}

func (s *Server) listReviews(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	reviews, err := s.reviews.ListForRecipe(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, r, err, errorText{notFound: "Recipe not found"})
		return
	}

	resp := reviewListResponse{Reviews: make([]reviewResponse, 0, len(reviews))}
	for _, rv := range reviews {
		resp.Reviews = append(resp.Reviews, reviewResponse{
			ID:          rv.ID,
			Content:     rv.Content,
			IsAnonymous: rv.IsAnonymous,
			Reviewer:    rv.Reviewer(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) deleteReview(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	reviewID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	if err := s.reviews.Delete(r.Context(), reviewID, id.UserID); err != nil {
		s.writeError(w, r, err, errorText{
			notFound:  "Review not found",
			forbidden: "You are not authorized to delete this review",
		})
		return
	}

	writeMessage(w, http.StatusOK, "Review deleted successfully")
}
