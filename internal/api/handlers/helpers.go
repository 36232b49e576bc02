package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/devforge/codelab/internal/pkg/errors"
	"github.com/devforge/codelab/internal/pkg/utils"
)

// decodeJSON decodes a request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.BadRequest("Invalid request body")
	}
	return nil
}

// writeServiceError writes a service error, falling back to the given
// error when the service returned something untyped.
func writeServiceError(w http.ResponseWriter, err error, fallback *errors.AppError) {
	if appErr, ok := err.(*errors.AppError); ok {
		utils.WriteError(w, appErr)
		return
	}
	utils.WriteError(w, fallback)
}

// urlParamInt64 parses a chi URL parameter as int64
func urlParamInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		return 0, errors.BadRequest("Invalid " + name)
	}
	return v, nil
}
