package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/server/auth"
)

type credentialsRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
}

type loginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

var credentialsText = errorText{
	validation: "Both username and password are required",
	conflict:   "Username already exists",
}

func (s *Server) registerUser(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	user, err := s.users.Register(r.Context(), req.UserName, req.Password)
	if err != nil {
		s.writeError(w, r, err, credentialsText)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{Message: "User created successfully", UserID: user.ID})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err, errorText{})
		return
	}

	token, err := s.users.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		s.writeError(w, r, err, credentialsText)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Message: "Login successful", Token: token.Value, ExpiresAt: token.ExpiresAt})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request, id auth.Identity) {
	if err := s.users.Delete(r.Context(), id.UserID); err != nil {
		s.writeError(w, r, err, errorText{notFound: "User not found"})
		return
	}

	writeMessage(w, http.StatusOK, "User deleted successfully")
}

// logout only confirms the token is valid; tokens are stateless and stay
// usable until they expire.
func (s *Server) logout(w http.ResponseWriter, _ *http.Request, _ auth.Identity) {
	writeMessage(w, http.StatusOK, "Logged out successfully")
}
