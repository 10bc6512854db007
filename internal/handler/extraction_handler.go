package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"extractd/internal/domain"
	"extractd/internal/export"
	"extractd/internal/port"
	"extractd/internal/service"
)

// exportLimit caps the number of rows fetched for a tabular export.
const exportLimit = 5000

// ExtractionHandler handles the submission and status endpoints.
type ExtractionHandler struct {
	svc  service.ExtractionService
	repo port.RequestRepository
}

// NewExtractionHandler creates an ExtractionHandler.
func NewExtractionHandler(svc service.ExtractionService, repo port.RequestRepository) *ExtractionHandler {
	return &ExtractionHandler{svc: svc, repo: repo}
}

// SubmitRequest is the submission body.
type SubmitRequest struct {
	IdempotencyKey string `json:"idempotency_key" binding:"required"`
	DocumentText   string `json:"document_text" binding:"required"`
}

// SubmitResponse is the submission result.
type SubmitResponse struct {
	RequestID string               `json:"request_id"`
	Status    domain.RequestStatus `json:"status"`
}

// StatusResponse is the status read result.
type StatusResponse struct {
	RequestID string                   `json:"request_id"`
	Status    domain.RequestStatus     `json:"status"`
	Result    *domain.ExtractionResult `json:"result"`
	Error     *domain.ExtractionError  `json:"error"`
}

// Submit handles POST /api/v1/extract
func (h *ExtractionHandler) Submit(c *gin.Context) {
	var body SubmitRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_INPUT", "idempotency_key and document_text are required")
		return
	}

	req, err := h.svc.Submit(c.Request.Context(), body.IdempotencyKey, body.DocumentText)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, SubmitResponse{RequestID: req.ID, Status: req.Status})
}

// Get handles GET /api/v1/extract/:id
func (h *ExtractionHandler) Get(c *gin.Context) {
	req, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{
		RequestID: req.ID,
		Status:    req.Status,
		Result:    req.Result(),
		Error:     req.Error(),
	})
}

// Export handles GET /api/v1/extract/export?format=csv|xlsx
func (h *ExtractionHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	reqs, _, err := h.repo.List(c.Request.Context(), 0, exportLimit)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("extraction-requests-%s.%s", time.Now().UTC().Format("20060102-150405"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if format == "xlsx" {
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := export.WriteXLSX(c.Writer, reqs); err != nil {
			HandleError(c, err)
		}
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	if err := export.WriteCSV(c.Writer, reqs); err != nil {
		HandleError(c, err)
	}
}
