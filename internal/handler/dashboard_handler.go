package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/canvasshq/canvass-backend/internal/response"
	"github.com/canvasshq/canvass-backend/internal/service"
)

// DashboardHandler serves the operator analytics endpoints.
type DashboardHandler struct {
	analytics *service.AnalyticsService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(analytics *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{analytics: analytics}
}

// GetSummary godoc
// GET /api/v1/dashboard/summary
// Returns the KPI block: totals, completion rate, average duration.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	summary, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"summary": summary})
}

// GetFunnel godoc
// GET /api/v1/dashboard/funnel
// Returns the per-question drop-off report.
func (h *DashboardHandler) GetFunnel(c *gin.Context) {
	steps, err := h.analytics.Funnel(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"steps": steps})
}

// GetTallies godoc
// GET /api/v1/dashboard/tallies
// Returns the option breakdown for every keyed question.
func (h *DashboardHandler) GetTallies(c *gin.Context) {
	tallies, err := h.analytics.Tallies(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tallies": tallies})
}

// GetBreakdown godoc
// GET /api/v1/dashboard/breakdown
// Returns the source/device/geo metadata buckets.
func (h *DashboardHandler) GetBreakdown(c *gin.Context) {
	breakdown, err := h.analytics.MetadataBreakdown(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"breakdown": breakdown})
}

// ListSubmissions godoc
// GET /api/v1/dashboard/submissions?page=1&per_page=25
// Returns one page of raw submissions, newest first.
func (h *DashboardHandler) ListSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "25"))
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 25
	}

	submissions, total, err := h.analytics.Submissions(c.Request.Context(), page, perPage)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"submissions": submissions}, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	})
}

// ExportCSV godoc
// GET /api/v1/dashboard/export.csv
// Streams every completed submission as a CSV download.
func (h *DashboardHandler) ExportCSV(c *gin.Context) {
	data, err := h.analytics.ExportCSV(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	filename := "submissions-" + time.Now().UTC().Format("20060102-150405") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
