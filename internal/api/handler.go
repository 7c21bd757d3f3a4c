package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/tradelens/internal/domain/dto"
	"github.com/guttosm/tradelens/internal/domain/models"
	"github.com/guttosm/tradelens/internal/service"
)

// Handler provides read-only HTTP handlers over a computed report.
//
// Responsibilities:
//   - Resolve the current report from the provider
//   - Validate the requested view name
//   - Translate report views into response DTOs
//   - Return structured JSON responses with appropriate HTTP status codes
type Handler struct {
	reports service.ReportProvider
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - reports (service.ReportProvider): source of the computed report.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(reports service.ReportProvider) *Handler {
	return &Handler{reports: reports}
}

// ListViews handles GET /api/v1/views.
//
// Responses:
//   - 200 OK: ViewIndexResponse listing every view in report order.
//   - 503 Service Unavailable: no report has been computed yet.
//
// ListViews godoc
// @Summary      List report views
// @Description  Names every computed view with the path to fetch it
// @Tags         views
// @Produce      json
// @Success      200  {object}  dto.ViewIndexResponse  "Success"
// @Failure      500  {object}  dto.ErrorResponse      "Internal Error"
// @Failure      503  {object}  dto.ErrorResponse      "Report not available"
// @Router       /api/v1/views [get]
func (h *Handler) ListViews(c *gin.Context) {
	r, ok := h.current(c)
	if !ok {
		return
	}

	resp := dto.ViewIndexResponse{
		GeneratedAt:  r.GeneratedAt,
		Transactions: r.Transactions,
		Views:        make([]dto.ViewLink, 0, len(models.ViewNames)),
	}
	for _, name := range models.ViewNames {
		resp.Views = append(resp.Views, dto.ViewLink{Name: name, Path: "/api/v1/views/" + name})
	}
	c.JSON(http.StatusOK, resp)
}

// GetView handles GET /api/v1/views/:name.
//
// Path Parameters:
//   - name (string, required): view name, e.g. "top_investments".
//
// Responses:
//   - 200 OK: ViewResponse wrapping the view.
//   - 404 Not Found: unknown view name.
//   - 503 Service Unavailable: no report has been computed yet.
//
// GetView godoc
// @Summary      Get one view
// @Description  Returns a single aggregation view of the current report
// @Tags         views
// @Produce      json
// @Param        name  path      string  true  "View name" example(top_investments)
// @Success      200   {object}  dto.ViewResponse   "Success"
// @Failure      404   {object}  dto.ErrorResponse  "Unknown view"
// @Failure      500   {object}  dto.ErrorResponse  "Internal Error"
// @Failure      503   {object}  dto.ErrorResponse  "Report not available"
// @Router       /api/v1/views/{name} [get]
func (h *Handler) GetView(c *gin.Context) {
	name := strings.ToLower(strings.TrimSpace(c.Param("name")))

	r, ok := h.current(c)
	if !ok {
		return
	}
	view, found := r.View(name)
	if !found {
		_ = c.Error(fmt.Errorf("%w %q", models.ErrUnknownView, name))
		return
	}

	c.JSON(http.StatusOK, dto.ViewResponse{
		Name:         name,
		GeneratedAt:  r.GeneratedAt,
		Transactions: r.Transactions,
		Data:         view,
	})
}

// GetReport handles GET /api/v1/report and returns every view at once.
//
// GetReport godoc
// @Summary      Get the full report
// @Description  Returns every aggregation view computed from the dataset
// @Tags         views
// @Produce      json
// @Success      200  {object}  models.Report      "Success"
// @Failure      500  {object}  dto.ErrorResponse  "Internal Error"
// @Failure      503  {object}  dto.ErrorResponse  "Report not available"
// @Router       /api/v1/report [get]
func (h *Handler) GetReport(c *gin.Context) {
	r, ok := h.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, r)
}

// current resolves the report. Failures are attached to the context and
// rendered by middleware.ErrorHandler.
func (h *Handler) current(c *gin.Context) (*models.Report, bool) {
	r, err := h.reports.Current(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return r, true
}
