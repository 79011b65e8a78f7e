package catalog

import (
	"aime-backend/internal/errors"
	"aime-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 公开的项目、活动与骑行挑战列表，客户端从这里获得报名与捐款所需的 ID 和 slug
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService}
}

func (h *CatalogHandler) ListProjects(c *gin.Context) {
	projects, err := h.catalogService.ListProjects(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"projects": projects}, "")
}

func (h *CatalogHandler) GetProject(c *gin.Context) {
	detail, err := h.catalogService.GetProject(c.Request.Context(), c.Param("slug"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, detail, "")
}

func (h *CatalogHandler) ListEvents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	events, err := h.catalogService.ListEvents(c.Request.Context(), limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"events": events}, "")
}

func (h *CatalogHandler) GetEvent(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid event id"))
		return
	}

	event, err := h.catalogService.GetEvent(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"event": event}, "")
}

func (h *CatalogHandler) ListChallenges(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	challenges, err := h.catalogService.ListChallenges(c.Request.Context(), limit)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"challenges": challenges}, "")
}

func (h *CatalogHandler) GetChallenge(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.New(errors.ErrBadRequest, "invalid challenge id"))
		return
	}

	detail, err := h.catalogService.GetChallenge(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, detail, "")
}
