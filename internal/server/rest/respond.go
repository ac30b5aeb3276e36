package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// authMessages are the client-facing texts for authentication failures.
var authMessages = []struct {
	err error
	msg string
}{
	{common.ErrMissingToken, "Missing token"},
	{common.ErrMalformedHeader, "Invalid token format. Token must be provided as 'Bearer <token>'"},
	{common.ErrTokenExpired, "Token has expired"},
	{common.ErrMalformedToken, "Invalid token"},
	{common.ErrInvalidCredentials, "Invalid username or password"},
	{common.ErrorUnauthorized, "Unauthorized"},
}

// errorText overrides the message written for a given error class. Empty
// fields fall back to the detail carried by the error.
type errorText struct {
	validation string
	conflict   string
	notFound   string
	forbidden  string
	// conflictStatus replaces 409 when set.
	conflictStatus int
}

// writeError maps err onto a status code and a message. Errors outside the
// taxonomy are logged and answered with a bare 500.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, text errorText) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, pick(text.validation, detail(err, common.ErrorValidation)))
	case errors.Is(err, common.ErrorConflict):
		status := http.StatusConflict
		if text.conflictStatus != 0 {
			status = text.conflictStatus
		}
		writeMessage(w, status, pick(text.conflict, detail(err, common.ErrorConflict)))
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, pick(text.notFound, "Not found"))
	case errors.Is(err, common.ErrorForbidden):
		writeMessage(w, http.StatusForbidden, pick(text.forbidden, detail(err, common.ErrorForbidden)))
	case common.IsAuthError(err):
		for _, m := range authMessages {
			if errors.Is(err, m.err) {
				writeMessage(w, http.StatusUnauthorized, m.msg)
				return
			}
		}
	default:
		s.logger.Error(r.Context(), "request failed",
			"error", err.Error(),
			"request_id", RequestIDFrom(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

func pick(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

// detail returns the text wrapped after sentinel, or the sentinel's own
// text when there is none.
func detail(err, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON body", common.ErrorValidation)
	}
	return nil
}

// pathID parses the numeric {id} route variable.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id", common.ErrorValidation)
	}
	return id, nil
}
