package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"alertdesk/internal/export"
	"alertdesk/internal/models"
	"alertdesk/internal/repository"
)

// refRequest is the shared create/update payload for reference entities.
// Pointer fields distinguish "absent" from "set to zero" so updates can be
// partial.
type refRequest struct {
	Name        *string `json:"name"`
	Section     *string `json:"section"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
	PlantTypeID *string `json:"plant_type_id"`
	PlantMakeID *string `json:"plant_make_id"`
}

// RefHandler serves CRUD for one reference entity. The closures bind it to the
// matching repository methods; Apply merges a payload into a record and
// returns field-keyed validation errors.
type RefHandler[T any] struct {
	Path   string
	Logger *zap.Logger

	OrderAllow    map[string]string
	ExportColumns []export.Column

	List   func(c *gin.Context, params repository.ListRefParams) ([]T, int64, error)
	Get    func(ctx context.Context, id string) (*T, error)
	Create func(ctx context.Context, item *T) error
	Update func(ctx context.Context, item *T) error
	Delete func(ctx context.Context, id string) error
	Apply  func(ctx context.Context, req refRequest, item *T) (map[string]string, error)
}

func (h *RefHandler[T]) Register(r *gin.Engine) {
	group := r.Group("/api/" + h.Path)
	group.GET("", h.list)
	group.GET("/export", h.export)
	group.GET("/:id", h.get)
	group.POST("", h.create)
	group.PUT("/:id", h.update)
	group.DELETE("/:id", h.delete)
}

func (h *RefHandler[T]) list(c *gin.Context) {
	params := repository.ListRefParams{
		Limit:   intQuery(c, "limit", 100),
		Offset:  intQuery(c, "offset", 0),
		Active:  boolQueryPtr(c, "active"),
		Query:   strQueryPtr(c, "q"),
		OrderBy: parseOrder(c.Query("order_by"), h.OrderAllow),
		Asc:     boolQueryPtr(c, "asc"),
	}

	items, total, err := h.List(c, params)
	if err != nil {
		h.Logger.Error("list failed", zap.String("entity", h.Path), zap.Error(err))
		Error(c, http.StatusInternalServerError, "list failed", nil)
		return
	}
	Ok(c, items, paginationMeta(params.Limit, params.Offset, total))
}

func (h *RefHandler[T]) get(c *gin.Context) {
	item, err := h.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.Error("get failed", zap.String("entity", h.Path), zap.Error(err))
		Error(c, http.StatusInternalServerError, "get failed", nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "not found", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *RefHandler[T]) create(c *gin.Context) {
	var req refRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	var item T
	fields, err := h.Apply(c.Request.Context(), req, &item)
	if err != nil {
		h.Logger.Error("create validation failed", zap.String("entity", h.Path), zap.Error(err))
		Error(c, http.StatusInternalServerError, "create failed", nil)
		return
	}
	if len(fields) > 0 {
		ValidationError(c, fields)
		return
	}
	if err := h.Create(c.Request.Context(), &item); err != nil {
		h.Logger.Error("create failed", zap.String("entity", h.Path), zap.Error(err))
		Error(c, http.StatusInternalServerError, "create failed", nil)
		return
	}
	Ok(c, item, nil)
}

func (h *RefHandler[T]) update(c *gin.Context) {
	var req refRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid payload", nil)
		return
	}

	item, err := h.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Logger.Error("update load failed", zap.String("entity", h.Path), zap.Error(err))
		Error(c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "not found", nil)
		return
	}

	fields, err := h.Apply(c.Request.Context(), req, item)
	if err != nil {
		h.Logger.Error("update validation failed", zap.String("entity", h.Path), zap.Error(err))
		Error(c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	if len(fields) > 0 {
		ValidationError(c, fields)
		return
	}
	if err := h.Update(c.Request.Context(), item); err != nil {
		h.Logger.Error("update failed", zap.String("entity", h.Path), zap.Error(err))
		Error(c, http.StatusInternalServerError, "update failed", nil)
		return
	}
	Ok(c, item, nil)
}

// export downloads the filtered (unpaginated) listing as csv, xlsx, or pdf.
func (h *RefHandler[T]) export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" && format != "pdf" {
		Error(c, http.StatusBadRequest, "unsupported format", nil)
		return
	}

	params := repository.ListRefParams{
		Limit:   exportPageSize,
		Active:  boolQueryPtr(c, "active"),
		Query:   strQueryPtr(c, "q"),
		OrderBy: parseOrder(c.Query("order_by"), h.OrderAllow),
		Asc:     boolQueryPtr(c, "asc"),
	}
	var (
		items []T
		err   error
	)
	for {
		var page []T
		page, _, err = h.List(c, params)
		if err != nil {
			h.Logger.Error("export load failed", zap.String("entity", h.Path), zap.Error(err))
			Error(c, http.StatusInternalServerError, "export failed", nil)
			return
		}
		items = append(items, page...)
		if len(page) < exportPageSize {
			break
		}
		params.Offset += exportPageSize
	}

	filename := sanitizeFilename(c.DefaultQuery("filename", h.Path))
	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".csv"))
		err = export.CSV(c.Writer, h.ExportColumns, items)
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".xlsx"))
		err = export.XLSX(c.Writer, h.Path, h.ExportColumns, items)
	case "pdf":
		c.Header("Content-Type", "application/pdf")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename+".pdf"))
		err = export.PDF(c.Writer, h.Path, h.ExportColumns, items, nil)
	}
	if err != nil {
		h.Logger.Error("export write failed", zap.String("entity", h.Path), zap.Error(err))
	}
}

func (h *RefHandler[T]) delete(c *gin.Context) {
	if err := h.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.Logger.Error("delete failed", zap.String("entity", h.Path), zap.Error(err))
		Error(c, http.StatusInternalServerError, "delete failed", nil)
		return
	}
	Ok(c, gin.H{"deleted": true}, nil)
}

var namedOrderAllow = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"is_active":  "is_active",
}

var regulationOrderAllow = map[string]string{
	"section":    "section",
	"created_at": "created_at",
	"updated_at": "updated_at",
	"is_active":  "is_active",
}

func namedExportColumns(labelHeader string) []export.Column {
	return []export.Column{
		{Header: labelHeader, Key: "name"},
		{Header: "Description", Key: "description"},
		{Header: "Active", Key: "is_active"},
		{Header: "Created", Key: "created_at"},
	}
}

var regulationExportColumns = []export.Column{
	{Header: "Section", Key: "section"},
	{Header: "Description", Key: "description"},
	{Header: "Active", Key: "is_active"},
	{Header: "Created", Key: "created_at"},
}

func requireLabel(val *string, current string, key string, fields map[string]string) string {
	if val != nil {
		current = strings.TrimSpace(*val)
	}
	if current == "" {
		fields[key] = key + " is required"
	}
	return current
}

// Registrable is any handler that mounts routes on the engine.
type Registrable interface {
	Register(r *gin.Engine)
}

// NewReferenceHandlers builds the CRUD handlers for all eight reference
// entities backed by repo.
func NewReferenceHandlers(repo repository.Repository, logger *zap.Logger) []Registrable {
	sources := &RefHandler[models.Source]{
		Path:          "sources",
		Logger:        logger,
		OrderAllow:    namedOrderAllow,
		ExportColumns: namedExportColumns("Name"),
		List: func(c *gin.Context, p repository.ListRefParams) ([]models.Source, int64, error) {
			items, err := repo.ListSources(c.Request.Context(), p)
			if err != nil {
				return nil, 0, err
			}
			total, err := repo.CountSources(c.Request.Context(), p)
			return items, total, err
		},
		Get:    repo.GetSource,
		Create: repo.CreateSource,
		Update: repo.UpdateSource,
		Delete: repo.DeleteSource,
		Apply: func(ctx context.Context, req refRequest, item *models.Source) (map[string]string, error) {
			fields := map[string]string{}
			item.Name = requireLabel(req.Name, item.Name, "name", fields)
			applyDescription(req.Description, &item.Description)
			applyActive(req.IsActive, &item.IsActive, item.ID == "")
			return fields, nil
		},
	}

	regulations := &RefHandler[models.Regulation]{
		Path:          "regulations",
		Logger:        logger,
		OrderAllow:    regulationOrderAllow,
		ExportColumns: regulationExportColumns,
		List: func(c *gin.Context, p repository.ListRefParams) ([]models.Regulation, int64, error) {
			items, err := repo.ListRegulations(c.Request.Context(), p)
			if err != nil {
				return nil, 0, err
			}
			total, err := repo.CountRegulations(c.Request.Context(), p)
			return items, total, err
		},
		Get:    repo.GetRegulation,
		Create: repo.CreateRegulation,
		Update: repo.UpdateRegulation,
		Delete: repo.DeleteRegulation,
		Apply: func(ctx context.Context, req refRequest, item *models.Regulation) (map[string]string, error) {
			fields := map[string]string{}
			item.Section = requireLabel(req.Section, item.Section, "section", fields)
			applyDescription(req.Description, &item.Description)
			applyActive(req.IsActive, &item.IsActive, item.ID == "")
			return fields, nil
		},
	}

	organizations := &RefHandler[models.Organization]{
		Path:          "organizations",
		Logger:        logger,
		OrderAllow:    namedOrderAllow,
		ExportColumns: namedExportColumns("Name"),
		List: func(c *gin.Context, p repository.ListRefParams) ([]models.Organization, int64, error) {
			items, err := repo.ListOrganizations(c.Request.Context(), p)
			if err != nil {
				return nil, 0, err
			}
			total, err := repo.CountOrganizations(c.Request.Context(), p)
			return items, total, err
		},
		Get:    repo.GetOrganization,
		Create: repo.CreateOrganization,
		Update: repo.UpdateOrganization,
		Delete: repo.DeleteOrganization,
		Apply: func(ctx context.Context, req refRequest, item *models.Organization) (map[string]string, error) {
			fields := map[string]string{}
			item.Name = requireLabel(req.Name, item.Name, "name", fields)
			applyDescription(req.Description, &item.Description)
			applyActive(req.IsActive, &item.IsActive, item.ID == "")
			return fields, nil
		},
	}

	sites := &RefHandler[models.Site]{
		Path:          "sites",
		Logger:        logger,
		OrderAllow:    namedOrderAllow,
		ExportColumns: namedExportColumns("Name"),
		List: func(c *gin.Context, p repository.ListRefParams) ([]models.Site, int64, error) {
			items, err := repo.ListSites(c.Request.Context(), p)
			if err != nil {
				return nil, 0, err
			}
			total, err := repo.CountSites(c.Request.Context(), p)
			return items, total, err
		},
		Get:    repo.GetSite,
		Create: repo.CreateSite,
		Update: repo.UpdateSite,
		Delete: repo.DeleteSite,
		Apply: func(ctx context.Context, req refRequest, item *models.Site) (map[string]string, error) {
			fields := map[string]string{}
			item.Name = requireLabel(req.Name, item.Name, "name", fields)
			applyDescription(req.Description, &item.Description)
			applyActive(req.IsActive, &item.IsActive, item.ID == "")
			return fields, nil
		},
	}

	hazards := &RefHandler[models.Hazard]{
		Path:          "hazards",
		Logger:        logger,
		OrderAllow:    namedOrderAllow,
		ExportColumns: namedExportColumns("Hazard"),
		List: func(c *gin.Context, p repository.ListRefParams) ([]models.Hazard, int64, error) {
			items, err := repo.ListHazards(c.Request.Context(), p)
			if err != nil {
				return nil, 0, err
			}
			total, err := repo.CountHazards(c.Request.Context(), p)
			return items, total, err
		},
		Get:    repo.GetHazard,
		Create: repo.CreateHazard,
		Update: repo.UpdateHazard,
		Delete: repo.DeleteHazard,
		Apply: func(ctx context.Context, req refRequest, item *models.Hazard) (map[string]string, error) {
			fields := map[string]string{}
			item.Name = requireLabel(req.Name, item.Name, "name", fields)
			applyDescription(req.Description, &item.Description)
			applyActive(req.IsActive, &item.IsActive, item.ID == "")
			return fields, nil
		},
	}

	plantTypes := &RefHandler[models.PlantType]{
		Path:          "plant-types",
		Logger:        logger,
		OrderAllow:    namedOrderAllow,
		ExportColumns: namedExportColumns("Plant Type"),
		List: func(c *gin.Context, p repository.ListRefParams) ([]models.PlantType, int64, error) {
			items, err := repo.ListPlantTypes(c.Request.Context(), p)
			if err != nil {
				return nil, 0, err
			}
			total, err := repo.CountPlantTypes(c.Request.Context(), p)
			return items, total, err
		},
		Get:    repo.GetPlantType,
		Create: repo.CreatePlantType,
		Update: repo.UpdatePlantType,
		Delete: repo.DeletePlantType,
		Apply: func(ctx context.Context, req refRequest, item *models.PlantType) (map[string]string, error) {
			fields := map[string]string{}
			item.Name = requireLabel(req.Name, item.Name, "name", fields)
			applyDescription(req.Description, &item.Description)
			applyActive(req.IsActive, &item.IsActive, item.ID == "")
			return fields, nil
		},
	}

	plantMakes := &RefHandler[models.PlantMake]{
		Path:          "plant-makes",
		Logger:        logger,
		OrderAllow:    namedOrderAllow,
		ExportColumns: append(namedExportColumns("Plant Make"), export.Column{Header: "Plant Type", Key: "plant_type.name"}),
		List: func(c *gin.Context, p repository.ListRefParams) ([]models.PlantMake, int64, error) {
			params := repository.ListPlantMakesParams{
				ListRefParams: p,
				PlantTypeID:   strQueryPtr(c, "plant_type_id"),
			}
			items, err := repo.ListPlantMakes(c.Request.Context(), params)
			if err != nil {
				return nil, 0, err
			}
			total, err := repo.CountPlantMakes(c.Request.Context(), params)
			return items, total, err
		},
		Get:    repo.GetPlantMake,
		Create: repo.CreatePlantMake,
		Update: repo.UpdatePlantMake,
		Delete: repo.DeletePlantMake,
		Apply: func(ctx context.Context, req refRequest, item *models.PlantMake) (map[string]string, error) {
			fields := map[string]string{}
			item.Name = requireLabel(req.Name, item.Name, "name", fields)
			applyDescription(req.Description, &item.Description)
			applyActive(req.IsActive, &item.IsActive, item.ID == "")
			if req.PlantTypeID != nil {
				item.PlantTypeID = strings.TrimSpace(*req.PlantTypeID)
			}
			if item.PlantTypeID == "" {
				fields["plant_type_id"] = "plant_type_id is required"
				return fields, nil
			}
			parent, err := repo.GetPlantType(ctx, item.PlantTypeID)
			if err != nil {
				return nil, err
			}
			if parent == nil {
				fields["plant_type_id"] = "unknown plant type"
			}
			return fields, nil
		},
	}

	plantModels := &RefHandler[models.PlantModel]{
		Path:          "plant-models",
		Logger:        logger,
		OrderAllow:    namedOrderAllow,
		ExportColumns: append(namedExportColumns("Plant Model"), export.Column{Header: "Plant Make", Key: "plant_make.name"}),
		List: func(c *gin.Context, p repository.ListRefParams) ([]models.PlantModel, int64, error) {
			params := repository.ListPlantModelsParams{
				ListRefParams: p,
				PlantMakeID:   strQueryPtr(c, "plant_make_id"),
			}
			items, err := repo.ListPlantModels(c.Request.Context(), params)
			if err != nil {
				return nil, 0, err
			}
			total, err := repo.CountPlantModels(c.Request.Context(), params)
			return items, total, err
		},
		Get:    repo.GetPlantModel,
		Create: repo.CreatePlantModel,
		Update: repo.UpdatePlantModel,
		Delete: repo.DeletePlantModel,
		Apply: func(ctx context.Context, req refRequest, item *models.PlantModel) (map[string]string, error) {
			fields := map[string]string{}
			item.Name = requireLabel(req.Name, item.Name, "name", fields)
			applyDescription(req.Description, &item.Description)
			applyActive(req.IsActive, &item.IsActive, item.ID == "")
			if req.PlantMakeID != nil {
				item.PlantMakeID = strings.TrimSpace(*req.PlantMakeID)
			}
			if item.PlantMakeID == "" {
				fields["plant_make_id"] = "plant_make_id is required"
				return fields, nil
			}
			parent, err := repo.GetPlantMake(ctx, item.PlantMakeID)
			if err != nil {
				return nil, err
			}
			if parent == nil {
				fields["plant_make_id"] = "unknown plant make"
			}
			return fields, nil
		},
	}

	return []Registrable{
		sources, regulations, organizations, sites,
		hazards, plantTypes, plantMakes, plantModels,
	}
}

func applyDescription(val *string, dst *string) {
	if val != nil {
		*dst = strings.TrimSpace(*val)
	}
}

// applyActive defaults new records to active when the payload omits the flag.
func applyActive(val *bool, dst *bool, isNew bool) {
	if val != nil {
		*dst = *val
		return
	}
	if isNew {
		*dst = true
	}
}
