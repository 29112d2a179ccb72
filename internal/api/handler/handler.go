// Package handler exposes the complaint lifecycle over HTTP. The handlers are
// thin: they decode the request, resolve the actor from the JWT claims, call
// the lifecycle service and map its error taxonomy onto status codes.
package handler

import (
	"errors"
	"net/http"

	"civictrack/backend/internal/lifecycle"
	"civictrack/backend/internal/media"
	"civictrack/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Lifecycle *lifecycle.Service
	Store     storage.Storage
	Files     media.FileStore
	JWTSecret []byte
}

func NewHandler(svc *lifecycle.Service, store storage.Storage, files media.FileStore, jwtSecret []byte) *Handler {
	return &Handler{
		Lifecycle: svc,
		Store:     store,
		Files:     files,
		JWTSecret: jwtSecret,
	}
}

// RegisterRoutes wires all endpoints onto the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/register", h.Register)

	authed := r.Group("/", h.AuthRequired())
	authed.POST("/attachments", h.UploadAttachment)

	complaints := authed.Group("/complaints")
	complaints.POST("", h.CreateComplaint)
	complaints.GET("", h.ListComplaints)
	complaints.GET("/:id", h.GetComplaint)
	complaints.PUT("/:id/status", h.UpdateStatus)
	complaints.POST("/:id/resolution", h.SubmitResolution)
	complaints.POST("/:id/consent", h.GiveConsent)
	complaints.POST("/:id/escalate", h.EscalateComplaint)
	complaints.POST("/:id/extend", h.ExtendDeadline)
}

// writeError maps the lifecycle error taxonomy to HTTP statuses. Conflict is
// the caller's cue to re-read and retry.
func writeError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, lifecycle.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, lifecycle.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, lifecycle.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, lifecycle.ErrDeadlinePassed),
		errors.Is(err, lifecycle.ErrMaxEscalation),
		errors.Is(err, lifecycle.ErrValidation):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
