package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alertdesk/internal/repository"
	"alertdesk/internal/service"
	"alertdesk/internal/stream"
)

type DashboardHandler struct {
	Repo    repository.Repository
	Service *service.DashboardService
	Logger  *zap.Logger
	Hub     *stream.Hub

	MetricsWindow time.Duration
	RecentLimit   int
}

func (h *DashboardHandler) Register(r *gin.Engine) {
	group := r.Group("/api/dashboard")
	group.GET("/metrics", h.metrics)
	group.GET("/alerts-over-time", h.alertsOverTime)
	group.GET("/recent-alerts", h.recentAlerts)
	for _, dim := range service.Dimensions {
		dim := dim
		group.GET("/alerts-by-"+dim, func(c *gin.Context) { h.alertsBy(c, dim) })
	}
	group.GET("/filtered-data", h.filteredData)
	group.GET("/filter-options/:entity", h.filterOptions)
	if h.Hub != nil {
		group.GET("/stream", func(c *gin.Context) {
			h.Hub.Serve(c.Writer, c.Request)
		})
	}
}

// @Summary Dashboard KPI counts
// @Tags dashboard
// @Param window query string false "lookback window, Go duration"
// @Success 200 {object} map[string]any
// @Router /api/dashboard/metrics [get]
func (h *DashboardHandler) metrics(c *gin.Context) {
	window := h.MetricsWindow
	if raw := c.Query("window"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			window = parsed
		}
	}
	summary, err := h.Service.Metrics(c.Request.Context(), window)
	if err != nil {
		h.Logger.Error("dashboard metrics failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "metrics failed", nil)
		return
	}
	Ok(c, summary, nil)
}

func (h *DashboardHandler) alertsOverTime(c *gin.Context) {
	days := intQuery(c, "days", 30)
	if days <= 0 || days > 365 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)
	stats, err := h.Repo.AlertCountsByDay(c.Request.Context(), since)
	if err != nil {
		h.Logger.Error("alerts over time failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "query failed", nil)
		return
	}
	Ok(c, stats, nil)
}

func (h *DashboardHandler) recentAlerts(c *gin.Context) {
	limit := intQuery(c, "limit", h.RecentLimit)
	if limit <= 0 {
		limit = 5
	}
	alerts, err := h.Repo.RecentAlerts(c.Request.Context(), limit)
	if err != nil {
		h.Logger.Error("recent alerts failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "query failed", nil)
		return
	}
	Ok(c, alerts, nil)
}

func (h *DashboardHandler) alertsBy(c *gin.Context, dimension string) {
	counts, err := h.Repo.AlertCountsBy(c.Request.Context(), dimension)
	if err != nil {
		h.Logger.Error("alerts by dimension failed", zap.String("dimension", dimension), zap.Error(err))
		Error(c, http.StatusInternalServerError, "query failed", nil)
		return
	}
	Ok(c, counts, nil)
}

// @Summary Filtered dashboard data
// @Tags dashboard
// @Success 200 {object} map[string]any
// @Router /api/dashboard/filtered-data [get]
func (h *DashboardHandler) filteredData(c *gin.Context) {
	params := repository.FilteredAlertsParams{
		Since:          timeQueryPtr(c, "since"),
		Until:          timeQueryPtr(c, "until"),
		SourceID:       strQueryPtr(c, "source_id"),
		RegulationID:   strQueryPtr(c, "regulation_id"),
		OrganizationID: strQueryPtr(c, "organization_id"),
		SiteID:         strQueryPtr(c, "site_id"),
		HazardID:       strQueryPtr(c, "hazard_id"),
		PlantTypeID:    strQueryPtr(c, "plant_type_id"),
	}
	data, err := h.Service.FilteredData(c.Request.Context(), params)
	if err != nil {
		h.Logger.Error("filtered data failed", zap.Error(err))
		Error(c, http.StatusInternalServerError, "query failed", nil)
		return
	}
	Ok(c, data, nil)
}

type filterOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// filterOptions serves active-only option lists for the dashboard filter
// sidebar and the edit dialogs. Plant makes and models accept a parent id to
// narrow the cascade.
func (h *DashboardHandler) filterOptions(c *gin.Context) {
	ctx := c.Request.Context()
	active := repository.ListRefParams{Active: boolPtr(true), Limit: 500}

	var (
		options []filterOption
		err     error
	)
	switch c.Param("entity") {
	case "sources":
		items, e := h.Repo.ListSources(ctx, active)
		err = e
		for _, it := range items {
			options = append(options, filterOption{ID: it.ID, Label: it.Name})
		}
	case "regulations":
		items, e := h.Repo.ListRegulations(ctx, active)
		err = e
		for _, it := range items {
			options = append(options, filterOption{ID: it.ID, Label: it.Section})
		}
	case "organizations":
		items, e := h.Repo.ListOrganizations(ctx, active)
		err = e
		for _, it := range items {
			options = append(options, filterOption{ID: it.ID, Label: it.Name})
		}
	case "sites":
		items, e := h.Repo.ListSites(ctx, active)
		err = e
		for _, it := range items {
			options = append(options, filterOption{ID: it.ID, Label: it.Name})
		}
	case "hazards":
		items, e := h.Repo.ListHazards(ctx, active)
		err = e
		for _, it := range items {
			options = append(options, filterOption{ID: it.ID, Label: it.Name})
		}
	case "plant-types":
		items, e := h.Repo.ListPlantTypes(ctx, active)
		err = e
		for _, it := range items {
			options = append(options, filterOption{ID: it.ID, Label: it.Name})
		}
	case "plant-makes":
		items, e := h.Repo.ListPlantMakes(ctx, repository.ListPlantMakesParams{
			ListRefParams: active,
			PlantTypeID:   strQueryPtr(c, "plant_type_id"),
		})
		err = e
		for _, it := range items {
			options = append(options, filterOption{ID: it.ID, Label: it.Name})
		}
	case "plant-models":
		items, e := h.Repo.ListPlantModels(ctx, repository.ListPlantModelsParams{
			ListRefParams: active,
			PlantMakeID:   strQueryPtr(c, "plant_make_id"),
		})
		err = e
		for _, it := range items {
			options = append(options, filterOption{ID: it.ID, Label: it.Name})
		}
	default:
		Error(c, http.StatusNotFound, "unknown entity", nil)
		return
	}
	if err != nil {
		h.Logger.Error("filter options failed", zap.String("entity", c.Param("entity")), zap.Error(err))
		Error(c, http.StatusInternalServerError, "query failed", nil)
		return
	}
	if options == nil {
		options = []filterOption{}
	}
	Ok(c, options, nil)
}
