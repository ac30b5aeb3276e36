package rest

import (
	"net/http"

	"github.com/dmitrijs2005/recipebox/internal/server/auth"
)

type tagRequest struct {
	TagName string `json:"tag_name"`
}

type createTagResponse struct {
	Message string `json:"message"`
	TagID   int64  `json:"tag_id"`
}

type tagResponse struct {
	ID                int64    `json:"id"`
	TagName           string   `json:"tag_name"`
	AssociatedRecipes []string `json:"associated_recipes"`
}

var tagText = errorText{
	validation: "Tag name is missing",
	conflict:   "Tag name already exists",
	notFound:   "Tag not found",
}

func (s *Server) createTag(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	recipeID, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	tag, err := s.tags.Create(r.Context(), recipeID, req.TagName)
	if err != nil {
		// A duplicate name on creation is reported as a bad request.
		text := tagText
		text.notFound = "Recipe not found"
		text.conflictStatus = http.StatusBadRequest
		s.writeError(w, r, err, text)
		return
	}

	writeJSON(w, http.StatusCreated, createTagResponse{Message: "Tag created successfully", TagID: tag.ID})
}

func (s *Server) getTag(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	tag, err := s.tags.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, tagText)
		return
	}

	resp := tagResponse{ID: tag.ID, TagName: tag.Name, AssociatedRecipes: tag.Recipes}
	if resp.AssociatedRecipes == nil {
		resp.AssociatedRecipes = []string{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) updateTag(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	if err := s.tags.Rename(r.Context(), id, req.TagName); err != nil {
		s.writeError(w, r, err, tagText)
		return
	}

	writeMessage(w, http.StatusOK, "Tag updated successfully")
}

func (s *Server) deleteTag(w http.ResponseWriter, r *http.Request, _ auth.Identity) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	if err := s.tags.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err, tagText)
		return
	}

	writeMessage(w, http.StatusOK, "Tag deleted successfully")
}
