package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BradenHooton/userdir/internal/models"
	pkghttp "github.com/BradenHooton/userdir/pkg/http"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 64 << 10

// writeServiceError maps a service sentinel to its HTTP status
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrViewNotFound):
		pkghttp.WriteNotFound(w, "View not found")
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Resource not found")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Invalid request")
	case errors.Is(err, models.ErrUnauthorized):
		pkghttp.WriteUnauthorized(w, "Authentication failed")
	case errors.Is(err, models.ErrViewLoading):
		pkghttp.WriteConflict(w, "View is still loading")
	case errors.Is(err, models.ErrSourceUnavailable):
		pkghttp.WriteBadGateway(w, "User source unavailable")
	default:
		pkghttp.WriteInternalError(w, "Internal server error")
	}
}

// decodeAndValidate reads a JSON body into dst and validates it
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}
	if err := ValidateRequest(dst); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return false
	}
	return true
}
