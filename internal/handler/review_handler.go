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

// ReviewHandler serves the managerial and finance review screens. The two
// stages share the same views; only the decision endpoint differs by stage.
type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	managerial := router.Group("/api/managerial/claims")
	managerial.Use(middleware.RequireRole(model.RoleManagerial, model.RoleOwner))
	{
		managerial.GET("", h.List)
		managerial.GET("/:id", h.Get)
		managerial.PATCH("/:id/status", h.decide(service.StageManagerial))
	}

	finance := router.Group("/api/finance/claims")
	finance.Use(middleware.RequireRole(model.RoleFinance, model.RoleOwner))
	{
		finance.GET("", h.List)
		finance.GET("/:id", h.Get)
		finance.PATCH("/:id/status", h.decide(service.StageFinance))
	}
}

// List returns adjudicated claims with their survey totals side by side
func (h *ReviewHandler) List(c *gin.Context) {
	p := pagination.Parse(c)
	claims, total, err := h.reviewService.List(c.Request.Context(), p.Offset, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, claims, total, p.Page, p.Limit))
}

// Get returns one claim with per-block deviations for review
func (h *ReviewHandler) Get(c *gin.Context) {
	claim, err := h.reviewService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, claim))
}

// decide applies a stage-scoped override decision
func (h *ReviewHandler) decide(stage string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewerID, ok := principal(c)
		if !ok {
			return
		}
		var req service.DecideClaimRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}

		claim, err := h.reviewService.Decide(c.Request.Context(), c.Param("id"), stage, reviewerID, req)
		if err != nil {
			c.JSON(response.FromError(err))
			return
		}
		c.JSON(http.StatusOK, response.Success(http.StatusOK, claim))
	}
}
