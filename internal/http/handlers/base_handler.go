// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"io/fs"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"farecast/internal/maps"
	"farecast/internal/modules/assets"
	"farecast/internal/modules/estimator"
	"farecast/internal/modules/session"
	"farecast/internal/modules/trips"
	"farecast/internal/types"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts only the canonical 36-char uuid form used for session ids;
// uuid.Validate alone also admits the urn, braced and bare-hex forms.
func isValidID(v string) bool {
	return len(v) == 36 && uuid.Validate(v) == nil
}

func sessionID(c *gin.Context) (types.ID, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusNotFound, session.ErrNotFound.Error())
		return "", false
	}
	return types.ID(id), true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeAppError maps domain errors to HTTP statuses.
func writeAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrNoData), errors.Is(err, session.ErrAlreadyLoaded):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, trips.ErrMalformedInput), errors.Is(err, estimator.ErrInsufficientData), errors.Is(err, maps.ErrNoRoute):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, estimator.ErrInvalidQuery):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, estimator.ErrRouteUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, assets.ErrMissingAsset), errors.Is(err, assets.ErrUnknownAsset), errors.Is(err, fs.ErrNotExist):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
