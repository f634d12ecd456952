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

type SurveyorHandler struct {
	surveyorService service.SurveyorService
}

func NewSurveyorHandler(surveyorService service.SurveyorService) *SurveyorHandler {
	return &SurveyorHandler{surveyorService: surveyorService}
}

func (h *SurveyorHandler) RegisterRoutes(router *gin.RouterGroup) {
	surveyor := router.Group("/api/surveyor")
	surveyor.Use(middleware.RequireRole(model.RoleSurveyor))
	{
		surveyor.GET("/claims", h.ListClaimsToSurvey)
		surveyor.POST("/surveys", h.Submit)
		surveyor.GET("/surveys", h.ListMine)
		surveyor.GET("/surveys/:id", h.Get)
		surveyor.PUT("/surveys/:id", h.Replace)
		surveyor.DELETE("/surveys/:id", h.Withdraw)
	}
}

// ListClaimsToSurvey returns submitted claims awaiting counter-measurement
func (h *SurveyorHandler) ListClaimsToSurvey(c *gin.Context) {
	p := pagination.Parse(c)
	claims, total, err := h.surveyorService.ListClaimsToSurvey(c.Request.Context(), p.Offset, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, claims, total, p.Page, p.Limit))
}

// Submit records a survey and adjudicates the claim in the same transaction
func (h *SurveyorHandler) Submit(c *gin.Context) {
	surveyorID, ok := principal(c)
	if !ok {
		return
	}
	var req service.SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	survey, err := h.surveyorService.Submit(c.Request.Context(), surveyorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, survey))
}

// Replace rebuilds the survey's measurements and re-runs adjudication
func (h *SurveyorHandler) Replace(c *gin.Context) {
	surveyorID, ok := principal(c)
	if !ok {
		return
	}
	var req service.ReplaceSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	survey, err := h.surveyorService.Replace(c.Request.Context(), c.Param("id"), surveyorID, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, survey))
}

func (h *SurveyorHandler) Withdraw(c *gin.Context) {
	surveyorID, ok := principal(c)
	if !ok {
		return
	}
	if err := h.surveyorService.Withdraw(c.Request.Context(), c.Param("id"), surveyorID); err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"deleted": true}))
}

func (h *SurveyorHandler) Get(c *gin.Context) {
	surveyorID, ok := principal(c)
	if !ok {
		return
	}
	survey, err := h.surveyorService.Get(c.Request.Context(), c.Param("id"), surveyorID)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, survey))
}

func (h *SurveyorHandler) ListMine(c *gin.Context) {
	surveyorID, ok := principal(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	surveys, total, err := h.surveyorService.ListMine(c.Request.Context(), surveyorID, p.Offset, p.Limit)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.List(http.StatusOK, surveys, total, p.Page, p.Limit))
}
