package series

import (
	"errors"
	"net/http"

	"github.com/aevon-lab/dashpoints/internal/core/aggregation"
	httperr "github.com/aevon-lab/dashpoints/internal/core/errors"
	"github.com/aevon-lab/dashpoints/internal/core/source"
	"github.com/aevon-lab/dashpoints/internal/widget"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all series API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/widgets/:widget_id", s.HandleGetWidget)
	r.GET("/v1/widgets/:widget_id/series", s.HandleWidgetSeries)
	r.GET("/v1/dashboards", s.HandleListDashboards)
	r.GET("/v1/dashboards/:dashboard_id/series", s.HandleDashboardSeries)
	r.GET("/v1/sources", s.HandleListSources)
	r.GET("/v1/sources/:source/date-attributes", s.HandleDateAttributes)
	r.GET("/v1/periods", s.HandleListPeriods)
}

// HandleWidgetSeries handles GET /v1/widgets/:widget_id/series
// Query parameters: period (optional override)
func (s *Service) HandleWidgetSeries(c *gin.Context) {
	var req SeriesQueryRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid path parameters",
			Details:   err.Error(),
		})
		return
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidRequestError,
			Message:   "Invalid query parameters",
			Details:   err.Error(),
		})
		return
	}

	resp, err := s.WidgetSeries(c.Request.Context(), req)
	if err != nil {
		writeError(c, "Failed to compute widget series", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleDashboardSeries handles GET /v1/dashboards/:dashboard_id/series
func (s *Service) HandleDashboardSeries(c *gin.Context) {
	resp, err := s.DashboardSeries(c.Request.Context(), c.Param("dashboard_id"), c.Query("period"))
	if err != nil {
		writeError(c, "Failed to compute dashboard series", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleGetWidget handles GET /v1/widgets/:widget_id
func (s *Service) HandleGetWidget(c *gin.Context) {
	resp, err := s.Widget(c.Request.Context(), c.Param("widget_id"))
	if err != nil {
		writeError(c, "Failed to load widget", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HandleListDashboards handles GET /v1/dashboards
func (s *Service) HandleListDashboards(c *gin.Context) {
	dashboards, err := s.Dashboards(c.Request.Context())
	if err != nil {
		writeError(c, "Failed to list dashboards", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"dashboards": dashboards})
}

// HandleListSources handles GET /v1/sources
func (s *Service) HandleListSources(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sources": s.Sources()})
}

// HandleDateAttributes handles GET /v1/sources/:source/date-attributes
func (s *Service) HandleDateAttributes(c *gin.Context) {
	key := c.Param("source")
	attrs, err := s.DateAttributes(key)
	if err != nil {
		if errors.Is(err, source.ErrUnresolvableSource) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpSourceNotFoundError,
				Message:   "Source is not registered",
				Details:   err.Error(),
			})
			return
		}
		writeError(c, "Failed to list date attributes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": key, "date_attributes": attrs})
}

// HandleListPeriods handles GET /v1/periods
func (s *Service) HandleListPeriods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"periods": s.Periods()})
}

func writeError(c *gin.Context, message string, err error) {
	status, errorType := classify(err)
	c.JSON(status, httperr.ErrorResponse{
		ErrorType: errorType,
		Message:   message,
		Details:   err.Error(),
	})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidQuery):
		return http.StatusBadRequest, httperr.HttpInvalidRequestError
	case errors.Is(err, widget.ErrNotFound):
		return http.StatusNotFound, httperr.HttpWidgetNotFoundError
	case errors.Is(err, httperr.ErrConfiguration):
		return http.StatusUnprocessableEntity, httperr.HttpInvalidConfigError
	case errors.Is(err, httperr.ErrNotSupported):
		return http.StatusNotImplemented, httperr.HttpNotSupportedError
	case errors.Is(err, aggregation.ErrQueryBudgetExceeded):
		return http.StatusUnprocessableEntity, httperr.HttpQueryBudgetExceeded
	default:
		return http.StatusInternalServerError, httperr.HttpInternalError
	}
}
