package handler

import (
	"net/http"

	"github.com/Putra-pkwl03/claim-app/internal/middleware"
	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/service"
	"github.com/Putra-pkwl03/claim-app/pkg/pagination"
	"github.com/Putra-pkwl03/claim-app/pkg/response"

	"github.com/gin-gonic/gin"
)

// SiteHandler exposes the geographic hierarchy. Every role can read it;
// only admins change it.
type SiteHandler struct {
	siteService service.SiteService
}

func NewSiteHandler(siteService service.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

var allRoles = []string{
	model.RoleAdmin, model.RoleContractor, model.RoleSurveyor,
	model.RoleManagerial, model.RoleFinance, model.RoleOwner,
}

func (h *SiteHandler) RegisterRoutes(router *gin.RouterGroup) {
	read := router.Group("/api")
	read.Use(middleware.RequireRole(allRoles...))
	{
		read.GET("/sites", h.ListSites)
		read.GET("/sites/:id", h.GetSite)
		read.GET("/pits", h.ListPits)
		read.GET("/pits/:id", h.GetPit)
		read.GET("/pits/:id/blocks", h.ListBlocks)
	}

	manage := router.Group("/api")
	manage.Use(middleware.RequireRole(model.RoleAdmin))
	{
		manage.POST("/sites", h.CreateSite)
		manage.PUT("/sites/:id", h.UpdateSite)
		manage.DELETE("/sites/:id", h.DeleteSite)
		manage.POST("/pits", h.CreatePit)
		manage.PUT("/pits/:id", h.UpdatePit)
		manage.DELETE("/pits/:id", h.DeletePit)
		manage.POST("/blocks", h.CreateBlock)
		manage.PUT("/blocks/:id", h.UpdateBlock)
		manage.DELETE("/blocks/:id", h.DeleteBlock)
	}
}

// --- Sites ---

func (h *SiteHandler) CreateSite(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req service.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	site, err := h.siteService.CreateSite(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, site))
}

func (h *SiteHandler) UpdateSite(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req service.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	site, err := h.siteService.UpdateSite(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, site))
}

func (h *SiteHandler) DeleteSite(c *gin.Context) {
	if err := h.siteService.DeleteSite(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

func (h *SiteHandler) GetSite(c *gin.Context) {
	site, err := h.siteService.GetSite(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, site))
}

func (h *SiteHandler) ListSites(c *gin.Context) {
	p := pagination.Parse(c)
	sites, total, err := h.siteService.ListSites(c.Request.Context(), p.Offset, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, sites, total, p.Page, p.Limit))
}

// --- Pits ---

func (h *SiteHandler) CreatePit(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req service.CreatePitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pit, err := h.siteService.CreatePit(c.Request.Context(), userID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pit))
}

func (h *SiteHandler) UpdatePit(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	var req service.UpdatePitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	pit, err := h.siteService.UpdatePit(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pit))
}

func (h *SiteHandler) DeletePit(c *gin.Context) {
	if err := h.siteService.DeletePit(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

func (h *SiteHandler) GetPit(c *gin.Context) {
	pit, err := h.siteService.GetPit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pit))
}

func (h *SiteHandler) ListPits(c *gin.Context) {
	p := pagination.Parse(c)
	pits, total, err := h.siteService.ListPits(c.Request.Context(), p.Offset, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, pits, total, p.Page, p.Limit))
}

// --- Blocks ---

func (h *SiteHandler) CreateBlock(c *gin.Context) {
	var req service.CreateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	block, err := h.siteService.CreateBlock(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, block))
}

func (h *SiteHandler) UpdateBlock(c *gin.Context) {
	var req service.UpdateBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	block, err := h.siteService.UpdateBlock(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, block))
}

func (h *SiteHandler) DeleteBlock(c *gin.Context) {
	if err := h.siteService.DeleteBlock(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

func (h *SiteHandler) ListBlocks(c *gin.Context) {
	blocks, err := h.siteService.ListBlocks(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, blocks))
}
