package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"carwash-backend/internal/booking"
	"carwash-backend/internal/statuscache"
	"carwash-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	status statuscache.Cache
	loc    *time.Location
	log    *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new API handler. A nil cache disables status caching.
func NewHandler(s store.Store, sc statuscache.Cache, loc *time.Location, log *zap.Logger) *Handler {
	if sc == nil {
		sc = statuscache.Noop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		store:  s,
		status: sc,
		loc:    loc,
		log:    log,
		now:    time.Now,
	}
}

// writeError maps domain errors onto HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidTransition),
		errors.Is(err, store.ErrPriceMismatch):
		code = http.StatusConflict
	case errors.Is(err, booking.ErrUnknownWashType):
		code = http.StatusBadRequest
	}

	if code == http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(code, gin.H{"error": "internal server error"})
		return
	}
	h.log.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", code), zap.Error(err))
	c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
}

// Healthz reports liveness.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
