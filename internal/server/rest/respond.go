package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/venus/internal/common"
	"github.com/dmitrijs2005/venus/internal/logging"
	"github.com/dmitrijs2005/venus/internal/server/auth"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError is the single place where service errors become HTTP statuses.
// Ownership failures already match common.ErrorNotFound and are rendered as
// 404 like any missing resource.
func writeError(w http.ResponseWriter, r *http.Request, logger logging.Logger, err error) {
	var ce *auth.CredentialError
	var se *auth.SigningError

	switch {
	case errors.As(err, &ce), errors.As(err, &se):
		logger.Error(r.Context(), "auth primitive failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: common.ErrorInternal.Error()})
	case errors.Is(err, common.ErrorUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: common.ErrorUnauthorized.Error()})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: common.ErrorNotFound.Error()})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody{Error: common.ErrorAlreadyExists.Error()})
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, common.ErrorTooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: common.ErrorTooLarge.Error()})
	default:
		logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: common.ErrorInternal.Error()})
	}
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return common.ErrorTooLarge
		}
		return fmt.Errorf("%w: invalid request body", common.ErrorValidation)
	}
	return nil
}
