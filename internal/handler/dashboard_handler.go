package handler

import (
	"net/http"
	"strconv"

	"github.com/Putra-pkwl03/claim-app/internal/middleware"
	"github.com/Putra-pkwl03/claim-app/internal/service"
	"github.com/Putra-pkwl03/claim-app/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/api/dashboard")
	dashboard.Use(middleware.RequireRole(allRoles...))
	{
		dashboard.GET("/summary", h.Summary)
		dashboard.GET("/production", h.Production)
	}
}

// Summary returns user and claim KPI counts
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context())
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, summary))
}

// Production returns approved BCM volume per month and per pit for a year
func (h *DashboardHandler) Production(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid year parameter"))
			return
		}
		year = parsed
	}

	report, err := h.dashboardService.Production(c.Request.Context(), year)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, report))
}
