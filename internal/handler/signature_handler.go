package handler

import (
	"net/http"

	"github.com/Putra-pkwl03/claim-app/internal/middleware"
	"github.com/Putra-pkwl03/claim-app/internal/model"
	"github.com/Putra-pkwl03/claim-app/internal/service"
	"github.com/Putra-pkwl03/claim-app/pkg/response"

	"github.com/gin-gonic/gin"
)

type SignatureHandler struct {
	signatureService service.SignatureService
}

func NewSignatureHandler(signatureService service.SignatureService) *SignatureHandler {
	return &SignatureHandler{signatureService: signatureService}
}

func (h *SignatureHandler) RegisterRoutes(router *gin.RouterGroup) {
	signatures := router.Group("/api/signatures")
	signatures.Use(middleware.RequireRole(
		model.RoleContractor, model.RoleSurveyor, model.RoleManagerial, model.RoleFinance,
	))
	{
		signatures.POST("", h.Sign)
		signatures.GET("/claims", h.ListSignable)
		signatures.GET("/surveyor-claims/:id", h.ListForSurvey)
		signatures.GET("/surveyor-claims/:id/certificate", h.Certificate)
	}
}

// Sign stores or replaces the caller's signature on a survey
func (h *SignatureHandler) Sign(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}
	role, ok := middleware.UserRole(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Missing authentication context"))
		return
	}
	var req service.SignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	sig, err := h.signatureService.Sign(c.Request.Context(), userID, role, req)
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sig))
}

// ListSignable returns adjudication-approved claims awaiting signatures
func (h *SignatureHandler) ListSignable(c *gin.Context) {
	rows, err := h.signatureService.ListSignable(c.Request.Context())
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

func (h *SignatureHandler) ListForSurvey(c *gin.Context) {
	sigs, err := h.signatureService.ListForSurvey(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sigs))
}

// Certificate returns the printable reconciliation certificate with collected signatures
func (h *SignatureHandler) Certificate(c *gin.Context) {
	cert, err := h.signatureService.Certificate(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, cert))
}
