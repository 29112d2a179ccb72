package handler

import (
	"net/http"

	"civictrack/backend/internal/lifecycle"
	"civictrack/backend/internal/models"

	"github.com/gin-gonic/gin"
)

type createComplaintRequest struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	Category      string   `json:"category" binding:"required"`
	Priority      string   `json:"priority"`
	DeadlineHours int      `json:"deadline_hours"`
	Longitude     float64  `json:"longitude"`
	Latitude      float64  `json:"latitude"`
	Address       string   `json:"address"`
	Attachments   []string `json:"attachments"`
}

func (h *Handler) CreateComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.Lifecycle.Submit(c.Request.Context(), actor(c), lifecycle.SubmitInput{
		Title:         req.Title,
		Description:   req.Description,
		Category:      models.Category(req.Category),
		Priority:      models.Priority(req.Priority),
		DeadlineHours: req.DeadlineHours,
		Longitude:     req.Longitude,
		Latitude:      req.Latitude,
		Address:       req.Address,
		Attachments:   req.Attachments,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, complaint)
}

func (h *Handler) ListComplaints(c *gin.Context) {
	complaints, err := h.Lifecycle.ListFor(c.Request.Context(), actor(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *Handler) GetComplaint(c *gin.Context) {
	complaint, err := h.Lifecycle.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus accepts the two actor-driven status changes that are not
// covered by a dedicated endpoint: claiming (in_progress) and rejecting.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var action lifecycle.Action
	switch models.Status(req.Status) {
	case models.StatusInProgress:
		action = lifecycle.ActionClaim
	case models.StatusRejected:
		action = lifecycle.ActionReject
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported status transition"})
		return
	}

	complaint, err := h.Lifecycle.Transition(c.Request.Context(), actor(c), c.Param("id"), action, lifecycle.TransitionPayload{})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

type resolutionRequest struct {
	Description string   `json:"description" binding:"required"`
	Proof       []string `json:"proof"`
}

func (h *Handler) SubmitResolution(c *gin.Context) {
	var req resolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.Lifecycle.Resolve(c.Request.Context(), actor(c), c.Param("id"), req.Description, req.Proof)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

type consentRequest struct {
	Given    bool   `json:"given"`
	Feedback string `json:"feedback"`
	Rating   int    `json:"rating" binding:"required"`
}

func (h *Handler) GiveConsent(c *gin.Context) {
	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.Lifecycle.Consent(c.Request.Context(), actor(c), c.Param("id"), lifecycle.ConsentInput{
		Given:    req.Given,
		Feedback: req.Feedback,
		Rating:   req.Rating,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

type escalateRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *Handler) EscalateComplaint(c *gin.Context) {
	var req escalateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.Lifecycle.Escalate(c.Request.Context(), actor(c), c.Param("id"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

type extendRequest struct {
	AdditionalHours int `json:"additional_hours"`
}

func (h *Handler) ExtendDeadline(c *gin.Context) {
	var req extendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	complaint, err := h.Lifecycle.ExtendDeadline(c.Request.Context(), actor(c), c.Param("id"), req.AdditionalHours)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, complaint)
}

// UploadAttachment stores one file and returns its stable reference. The
// reference goes into a complaint's attachments or a resolution's proof.
func (h *Handler) UploadAttachment(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing file"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	ref, err := h.Files.Save(file.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ref": ref})
}
