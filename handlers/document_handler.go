package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"aijustice-backend/models"
	"aijustice-backend/service"

	"github.com/gin-gonic/gin"
)

// DocumentHandler handles document uploads destined for analysis. Files
// are read once and discarded; nothing is stored.
type DocumentHandler struct {
	analysisService *service.AnalysisService
	maxFileSize     int64
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(analysisService *service.AnalysisService) *DocumentHandler {
	return &DocumentHandler{
		analysisService: analysisService,
		maxFileSize:     5 * 1024 * 1024, // 5MB
	}
}

// AnalyzeDocument handles POST /api/documents/analyze. The form carries a
// plain-text file and a "kind" field selecting case analysis (default) or
// bias detection.
func (h *DocumentHandler) AnalyzeDocument(c *gin.Context) {
	kind := models.AnalysisKind(c.PostForm("kind"))
	if kind == "" {
		kind = models.AnalysisKindCase
	}
	if kind != models.AnalysisKindCase && kind != models.AnalysisKindBias {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_KIND",
				"message": `Analysis kind must be "case" or "bias"`,
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize),
			},
		})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" && strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".txt") {
		mimeType = "text/plain"
	}
	if !strings.HasPrefix(mimeType, "text/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "Please upload a valid plain-text (.txt) file",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_OPEN_ERROR",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, h.maxFileSize))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_READ_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	var analysis any
	switch kind {
	case models.AnalysisKindCase:
		result, err := h.analysisService.AnalyzeCase(c.Request.Context(), service.AnalyzeCaseRequest{
			Text: string(body),
		})
		if err != nil {
			writeAnalysisError(c, err)
			return
		}
		analysis = result.Analysis
	case models.AnalysisKindBias:
		result, err := h.analysisService.DetectBias(c.Request.Context(), service.DetectBiasRequest{
			Text: string(body),
		})
		if err != nil {
			writeAnalysisError(c, err)
			return
		}
		analysis = result.Analysis
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    analysis,
	})
}
