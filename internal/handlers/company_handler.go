package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"crmadmin/internal/api/middleware"
	"crmadmin/internal/models"
	"crmadmin/internal/services"
	"crmadmin/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// CompanyHandler serves the account screens. Companies carry nested child
// rows, so they bypass the generic CRUD controller.
type CompanyHandler struct {
	db        *gorm.DB
	companies *services.CompanyService
	log       *logger.Logger
}

func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{
		db:        db,
		companies: services.NewCompanyService(db),
		log:       logger.New("CompanyHandler"),
	}
}

func (h *CompanyHandler) writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Company not found"})
	case errors.Is(err, services.ErrDuplicateName):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// List returns companies with pagination and name search.
// @Summary List companies
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param search query string false "Company name search"
// @Success 200 {object} map[string]interface{}
// @Router /sales/companies [get]
func (h *CompanyHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	filters := make(map[string]interface{})
	if raw := c.QueryParam("account_type_id"); raw != "" {
		filters["account_type_id"] = raw
	}
	if raw := c.QueryParam("industry_segment_id"); raw != "" {
		filters["industry_segment_id"] = raw
	}

	companies, total, err := h.companies.List(c.Request().Context(), services.ListParams{
		Page:    page,
		Limit:   limit,
		Search:  c.QueryParam("search"),
		Filters: filters,
	})
	if err != nil {
		return h.writeError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"data":  companies,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// Get returns one company with all child rows.
// @Summary Get company
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {object} models.Company
// @Failure 404 {object} map[string]string "Not found"
// @Router /sales/companies/{id} [get]
func (h *CompanyHandler) Get(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	company, err := h.companies.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, company)
}

// Create stores a company with its child rows in one transaction.
// @Summary Create company
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company body models.Company true "Company"
// @Success 201 {object} models.Company
// @Failure 400 {object} map[string]string "Validation error or duplicate name"
// @Router /sales/companies [post]
func (h *CompanyHandler) Create(c echo.Context) error {
	var company models.Company
	if err := c.Bind(&company); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(&company); err != nil {
		return err
	}

	if err := h.companies.Create(c.Request().Context(), &company, middleware.GetActorID(c)); err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, company)
}

// Update replaces the company and any child slices present in the payload.
// @Summary Update company
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param company body models.Company true "Company"
// @Success 200 {object} models.Company
// @Failure 404 {object} map[string]string "Not found"
// @Router /sales/companies/{id} [put]
func (h *CompanyHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var company models.Company
	if err := c.Bind(&company); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.companies.Update(c.Request().Context(), id, &company, middleware.GetActorID(c)); err != nil {
		return h.writeError(c, err)
	}

	updated, err := h.companies.Get(c.Request().Context(), id)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete soft-deletes a company and its children.
// @Summary Delete company
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 204 "No content"
// @Failure 404 {object} map[string]string "Not found"
// @Router /sales/companies/{id} [delete]
func (h *CompanyHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.companies.Delete(c.Request().Context(), id, middleware.GetActorID(c)); err != nil {
		return h.writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
