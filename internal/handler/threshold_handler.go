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

type ThresholdHandler struct {
	thresholdService service.ThresholdService
}

func NewThresholdHandler(thresholdService service.ThresholdService) *ThresholdHandler {
	return &ThresholdHandler{thresholdService: thresholdService}
}

func (h *ThresholdHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Reviewers can read the active threshold; only admins manage the registry.
	read := router.Group("/api/thresholds")
	read.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManagerial, model.RoleFinance, model.RoleOwner))
	{
		read.GET("/active", h.GetActive)
	}

	manage := router.Group("/api/thresholds")
	manage.Use(middleware.RequireRole(model.RoleAdmin))
	{
		manage.GET("", h.List)
		manage.GET("/:id", h.Get)
		manage.POST("", h.Create)
		manage.PUT("/:id", h.Update)
		manage.PATCH("/:id/activate", h.Activate)
		manage.DELETE("/:id", h.Delete)
	}
}

// List returns every threshold, active or not
func (h *ThresholdHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	thresholds, total, err := h.thresholdService.List(c.Request.Context(), p.Offset, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, thresholds, total, p.Page, p.Limit))
}

func (h *ThresholdHandler) Get(c *gin.Context) {
	threshold, err := h.thresholdService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, threshold))
}

// GetActive returns the single active threshold, or null when none is active
func (h *ThresholdHandler) GetActive(c *gin.Context) {
	threshold, err := h.thresholdService.GetActive(c.Request.Context())
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, threshold))
}

func (h *ThresholdHandler) Create(c *gin.Context) {
	var req service.CreateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	threshold, err := h.thresholdService.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, threshold))
}

func (h *ThresholdHandler) Update(c *gin.Context) {
	var req service.UpdateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	threshold, err := h.thresholdService.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, threshold))
}

// Activate makes this threshold the active one and deactivates every other
func (h *ThresholdHandler) Activate(c *gin.Context) {
	threshold, err := h.thresholdService.Activate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, threshold))
}

func (h *ThresholdHandler) Delete(c *gin.Context) {
	if err := h.thresholdService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}
