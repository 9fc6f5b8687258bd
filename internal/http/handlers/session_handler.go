// README: Session handlers for create/get/delete and dataset loading.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"farecast/internal/modules/session"
	"farecast/internal/modules/trips"
	"farecast/internal/types"
)

type SessionHandler struct {
	sessions  *session.Manager
	static    trips.Source
	db        trips.Source
	maxUpload int64
}

// NewSessionHandler wires dataset loading. static and db may be nil when not configured.
func NewSessionHandler(sessions *session.Manager, static, db trips.Source, maxUpload int64) *SessionHandler {
	return &SessionHandler{sessions: sessions, static: static, db: db, maxUpload: maxUpload}
}

func (h *SessionHandler) Create(c *gin.Context) {
	writeJSON(c, http.StatusCreated, h.sessions.Create())
}

func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	info, err := h.sessions.Get(id)
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, info)
}

func (h *SessionHandler) Delete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if err := h.sessions.Close(id); err != nil {
		writeAppError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Upload loads a multipart "file" field into the session.
func (h *SessionHandler) Upload(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(c, http.StatusRequestEntityTooLarge, "dataset too large")
			return
		}
		writeError(c, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	h.load(c, id, trips.ReaderSource{Filename: header.Filename, R: file})
}

func (h *SessionHandler) LoadStatic(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if h.static == nil {
		writeError(c, http.StatusServiceUnavailable, "static dataset not configured")
		return
	}
	h.load(c, id, h.static)
}

func (h *SessionHandler) LoadDB(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if h.db == nil {
		writeError(c, http.StatusServiceUnavailable, "database source not configured")
		return
	}
	h.load(c, id, h.db)
}

func (h *SessionHandler) load(c *gin.Context, id types.ID, src trips.Source) {
	info, err := h.sessions.Load(c.Request.Context(), id, src)
	if err != nil {
		writeAppError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, info)
}
