package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"crmadmin/internal/api/middleware"
	"crmadmin/internal/services"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// BaseController provides generic CRUD operations for any model
type BaseController[T any] struct {
	service services.BaseService[T]
}

// NewBaseController creates a new base controller
func NewBaseController[T any](service services.BaseService[T]) *BaseController[T] {
	return &BaseController[T]{
		service: service,
	}
}

// parseIncludes parses the include query parameter and returns a slice of relationships to preload
func parseIncludes(ctx echo.Context) []string {
	include := ctx.QueryParam("include")
	if include == "" {
		return nil
	}
	return strings.Split(include, ",")
}

func parseID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id parameter")
	}
	return id, nil
}

// writeError maps service errors to HTTP responses.
func writeError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	case errors.Is(err, services.ErrDuplicateName):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

// Create handles creation of new entities
func (c *BaseController[T]) Create(ctx echo.Context) error {
	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body "+err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return err
	}

	includes := parseIncludes(ctx)
	if err := c.service.Create(ctx.Request().Context(), &entity, middleware.GetActorID(ctx), includes...); err != nil {
		return writeError(err)
	}

	return ctx.JSON(http.StatusCreated, entity)
}

// Get handles retrieval of a single entity
func (c *BaseController[T]) Get(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	includes := parseIncludes(ctx)
	entity, err := c.service.Get(ctx.Request().Context(), id, includes...)
	if err != nil {
		return writeError(err)
	}

	return ctx.JSON(http.StatusOK, entity)
}

// List handles retrieval of multiple entities with pagination and filtering
func (c *BaseController[T]) List(ctx echo.Context) error {
	// Parse pagination parameters
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	limit, _ := strconv.Atoi(ctx.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	// Parse filters from query parameters
	reserved := map[string]bool{
		"page": true, "limit": true, "include": true,
		"search": true, "sort": true, "order": true,
	}
	filters := make(map[string]interface{})
	for key, values := range ctx.QueryParams() {
		if !reserved[key] && len(values) > 0 {
			filters[key] = values[0]
		}
	}

	params := services.ListParams{
		Page:    page,
		Limit:   limit,
		Search:  ctx.QueryParam("search"),
		Filters: filters,
		Sort:    ctx.QueryParam("sort"),
		Order:   ctx.QueryParam("order"),
	}

	includes := parseIncludes(ctx)
	entities, total, err := c.service.List(ctx.Request().Context(), params, includes...)
	if err != nil {
		return writeError(err)
	}

	return ctx.JSON(http.StatusOK, map[string]interface{}{
		"data":  entities,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Update handles updating an existing entity
func (c *BaseController[T]) Update(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	var entity T
	if err := ctx.Bind(&entity); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := ctx.Validate(&entity); err != nil {
		return err
	}

	includes := parseIncludes(ctx)
	if err := c.service.Update(ctx.Request().Context(), id, &entity, middleware.GetActorID(ctx), includes...); err != nil {
		return writeError(err)
	}

	return ctx.JSON(http.StatusOK, entity)
}

// Delete handles deletion of an entity
func (c *BaseController[T]) Delete(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(ctx.Request().Context(), id, middleware.GetActorID(ctx)); err != nil {
		return writeError(err)
	}

	return ctx.NoContent(http.StatusNoContent)
}
