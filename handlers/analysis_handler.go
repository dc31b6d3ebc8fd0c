package handlers

import (
	"errors"
	"net/http"

	"aijustice-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnalysisHandler handles HTTP requests for case and bias analysis
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
	}
}

// AnalyzeRequest represents the request body for both analysis endpoints
type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

// AnalyzeCase handles POST /api/analyses/case
func (h *AnalysisHandler) AnalyzeCase(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.analysisService.AnalyzeCase(c.Request.Context(), service.AnalyzeCaseRequest{
		Text: req.Text,
	})
	if err != nil {
		writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Analysis,
	})
}

// DetectBias handles POST /api/analyses/bias
func (h *AnalysisHandler) DetectBias(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.analysisService.DetectBias(c.Request.Context(), service.DetectBiasRequest{
		Text: req.Text,
	})
	if err != nil {
		writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Analysis,
	})
}

// GetAnalysis handles GET /api/analyses/:id
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid analysis ID format",
			},
		})
		return
	}

	result, err := h.analysisService.GetAnalysis(c.Request.Context(), service.GetAnalysisRequest{
		ID: id,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Analysis not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Analysis,
	})
}

// ListAnalyses handles GET /api/analyses
func (h *AnalysisHandler) ListAnalyses(c *gin.Context) {
	result, err := h.analysisService.ListAnalyses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Analyses,
	})
}

// writeAnalysisError maps service failures onto the response envelope.
// Gateway and malformed-response failures both read as "analysis failed";
// the distinct codes let a client tell them apart.
func writeAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_TEXT",
				"message": "Text must not be blank",
			},
		})
	case errors.Is(err, service.ErrMalformedResponse):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MALFORMED_RESPONSE",
				"message": err.Error(),
			},
		})
	case errors.Is(err, service.ErrGateway):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GATEWAY_ERROR",
				"message": err.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": err.Error(),
			},
		})
	}
}
