package handler

import (
	"net/http"

	"github.com/Putra-pkwl03/claim-app/internal/middleware"
	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/service"
	"github.com/Putra-pkwl03/claim-app/pkg/pagination"
	"github.com/Putra-pkwl03/claim-app/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ClaimHandler struct {
	claimService service.ClaimService
}

func NewClaimHandler(claimService service.ClaimService) *ClaimHandler {
	return &ClaimHandler{claimService: claimService}
}

func (h *ClaimHandler) RegisterRoutes(router *gin.RouterGroup) {
	claims := router.Group("/api/contractor/claims")
	claims.Use(middleware.RequireRole(model.RoleContractor))
	{
		claims.POST("", h.Submit)
		claims.GET("", h.ListMine)
		claims.GET("/:id", h.Get)
		claims.PUT("/:id", h.Replace)
		claims.DELETE("/:id", h.Withdraw)
	}

	all := router.Group("/api/claims")
	all.Use(middleware.RequireRole(model.RoleAdmin, model.RoleManagerial, model.RoleFinance, model.RoleOwner))
	{
		all.GET("", h.ListAll)
	}
}

// principal extracts the authenticated user id set by RequireRole.
func principal(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing authentication context"))
	}
	return id, ok
}

// Submit creates a claim with its blocks and assigns the claim number
func (h *ClaimHandler) Submit(c *gin.Context) {
	contractorID, ok := principal(c)
	if !ok {
		return
	}
	var req service.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	claim, err := h.claimService.Submit(c.Request.Context(), contractorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, claim))
}

// Replace rebuilds the claim's blocks and re-runs the comparison if surveyed
func (h *ClaimHandler) Replace(c *gin.Context) {
	contractorID, ok := principal(c)
	if !ok {
		return
	}
	var req service.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	claim, err := h.claimService.Replace(c.Request.Context(), c.Param("id"), contractorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, claim))
}

func (h *ClaimHandler) Withdraw(c *gin.Context) {
	contractorID, ok := principal(c)
	if !ok {
		return
	}
	if err := h.claimService.Withdraw(c.Request.Context(), c.Param("id"), contractorID); err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

func (h *ClaimHandler) Get(c *gin.Context) {
	contractorID, ok := principal(c)
	if !ok {
		return
	}
	claim, err := h.claimService.Get(c.Request.Context(), c.Param("id"), contractorID)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, claim))
}

func (h *ClaimHandler) ListMine(c *gin.Context) {
	contractorID, ok := principal(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	claims, total, err := h.claimService.ListMine(c.Request.Context(), contractorID, p.Offset, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, claims, total, p.Page, p.Limit))
}

func (h *ClaimHandler) ListAll(c *gin.Context) {
	p := pagination.Parse(c)
	claims, total, err := h.claimService.ListAll(c.Request.Context(), p.Offset, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, claims, total, p.Page, p.Limit))
}
