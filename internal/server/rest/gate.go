package rest

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/auth"
)

// authedHandler is a handler that can only be reached with a verified
// identity.
type authedHandler func(w http.ResponseWriter, r *http.Request, id auth.Identity)

// authenticate reads the bearer token from the Authorization header,
// verifies it and resolves the user it names.
func (s *Server) authenticate(r *http.Request) (auth.Identity, error) {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if header == "" {
		return auth.Identity{}, common.ErrMissingToken
	}

	if !strings.HasPrefix(header, common.BearerPrefix) {
		return auth.Identity{}, common.ErrMalformedHeader
	}

	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[1] == "" {
		return auth.Identity{}, common.ErrMalformedHeader
	}

	userID, err := s.tokens.Verify(parts[1])
	if err != nil {
		return auth.Identity{}, err
	}

	return s.users.Identify(r.Context(), userID)
}

// requireAuth runs h only for requests that pass authenticate. The identity
// is handed to h and also stored in the request context.
func (s *Server) requireAuth(h authedHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := s.authenticate(r)
		if err != nil {
			s.writeError(w, r, err, errorText{})
			return
		}

		r = r.WithContext(auth.WithIdentity(r.Context(), id))
		h(w, r, id)
	}
}
