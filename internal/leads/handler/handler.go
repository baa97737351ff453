// Package handler exposes the lead lifecycle API over gin. One handler serves
// both path families; middleware resolves the :family segment up front.
package handler

import (
	"net/http"

	"leadtrack_backend/internal/leads/domain"
	"leadtrack_backend/internal/leads/service"
	"leadtrack_backend/internal/leads/transport"
	"leadtrack_backend/platform/httpkit"
	"leadtrack_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"

	contextFamilyKey = "leadFamily"
)

type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

// FamilyResolver validates the :family path segment and stashes the parsed
// value in the request context. Unknown families are a 404, matching the
// behavior of a route that does not exist.
func FamilyResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		family, ok := domain.ParseFamily(c.Param("family"))
		if !ok {
			httpkit.Error(c, http.StatusNotFound, "not found")
			c.Abort()
			return
		}
		c.Set(contextFamilyKey, family)
		c.Next()
	}
}

func family(c *gin.Context) domain.Family {
	return c.MustGet(contextFamilyKey).(domain.Family)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads", h.Create)
	rg.GET("/leads/:ownerId", h.ListActive)
	rg.GET("/lost-leads/:ownerId", h.ListLost)
	rg.GET("/deleted-leads/:ownerId", h.ListDeleted)
	rg.GET("/stats/:ownerId", h.Stats)
	rg.GET("/unread-counts", h.UnreadCounts)
	rg.PUT("/mark-viewed/:ownerId", h.MarkViewed)
	rg.PATCH("/update-status/:leadId", h.UpdateStatus)
	rg.DELETE("/lead/:leadId", h.SoftDelete)
	rg.PUT("/restore/:leadId", h.Restore)
	rg.DELETE("/permanent-delete/:leadId", h.PermanentDelete)
	rg.GET("/activity/:leadId", h.Activity)
}

func leadID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), family(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.Created(c, gin.H{"lead": lead})
}

func (h *Handler) ListActive(c *gin.Context) {
	leads, err := h.svc.ListActive(c.Request.Context(), family(c), c.Param("ownerId"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"leads": leads})
}

func (h *Handler) ListLost(c *gin.Context) {
	leads, err := h.svc.ListLost(c.Request.Context(), family(c), c.Param("ownerId"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"leads": leads})
}

func (h *Handler) ListDeleted(c *gin.Context) {
	leads, err := h.svc.ListDeleted(c.Request.Context(), family(c), c.Param("ownerId"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"leads": leads})
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), family(c), c.Param("ownerId"))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"stats": stats})
}

func (h *Handler) UnreadCounts(c *gin.Context) {
	counts, err := h.svc.UnreadCounts(c.Request.Context(), family(c))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"unread_counts": counts})
}

func (h *Handler) MarkViewed(c *gin.Context) {
	if err := h.svc.MarkViewed(c.Request.Context(), family(c), c.Param("ownerId")); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": "marked as viewed"})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	actor := c.GetString(httpkit.ContextAdminIDKey)
	lead, err := h.svc.UpdateStatus(c.Request.Context(), family(c), id, req, actor)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"lead": lead})
}

func (h *Handler) SoftDelete(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	var req transport.SoftDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed)
		return
	}

	lead, err := h.svc.SoftDelete(c.Request.Context(), family(c), id, req.DeletedBy)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"lead": lead})
}

func (h *Handler) Restore(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	lead, err := h.svc.Restore(c.Request.Context(), family(c), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"lead": lead})
}

func (h *Handler) PermanentDelete(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	if err := h.svc.PermanentDelete(c.Request.Context(), family(c), id); httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"message": "lead permanently deleted"})
}

func (h *Handler) Activity(c *gin.Context) {
	id, ok := leadID(c)
	if !ok {
		return
	}

	entries, err := h.svc.Activity(c.Request.Context(), family(c), id)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"activity": entries})
}
