package handlers

import (
	"net/http"
	"strconv"

	"crmadmin/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// DropdownOption is the id/label pair select boxes consume.
type DropdownOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type dropdownSource struct {
	table        string
	labelColumn  string
	parentColumn string
}

// dropdownSources whitelists what can be listed. parentColumn enables
// dependent dropdowns filtered with the parent_id query parameter.
var dropdownSources = map[string]dropdownSource{
	"countries":                 {table: "mst_countries", labelColumn: "name"},
	"states":                    {table: "mst_states", labelColumn: "name", parentColumn: "country_id"},
	"cities":                    {table: "mst_cities", labelColumn: "name", parentColumn: "state_id"},
	"currencies":                {table: "mst_currencies", labelColumn: "name"},
	"business-types":            {table: "mst_business_types", labelColumn: "name"},
	"account-types":             {table: "mst_account_types", labelColumn: "name"},
	"address-types":             {table: "mst_address_types", labelColumn: "name"},
	"document-types":            {table: "mst_document_types", labelColumn: "name"},
	"company-types":             {table: "mst_company_types", labelColumn: "name"},
	"partner-types":             {table: "mst_partner_types", labelColumn: "name"},
	"industry-segments":         {table: "mst_industry_segments", labelColumn: "name"},
	"sub-industry-segments":     {table: "mst_sub_industry_segments", labelColumn: "name", parentColumn: "industry_segment_id"},
	"job-functions":             {table: "mst_job_functions", labelColumn: "name"},
	"product-service-interests": {table: "mst_product_service_interests", labelColumn: "name"},
	"head-of-companies":         {table: "mst_head_of_companies", labelColumn: "name"},
	"departments":               {table: "mst_departments", labelColumn: "name"},
	"sub-departments":           {table: "mst_sub_departments", labelColumn: "name", parentColumn: "department_id"},
	"designations":              {table: "mst_designations", labelColumn: "name"},
	"regions":                   {table: "mst_regions", labelColumn: "name"},
	"business-verticals":        {table: "mst_business_verticals", labelColumn: "name"},
	"roles":                     {table: "mst_roles", labelColumn: "name"},
	"modules":                   {table: "mst_modules", labelColumn: "name"},
	"permissions":               {table: "mst_permissions", labelColumn: "name"},
}

type DropdownHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDropdownHandler(db *gorm.DB) *DropdownHandler {
	return &DropdownHandler{db: db, log: logger.New("DropdownHandler")}
}

// Options lists active rows of one master entity as id/name pairs.
// @Summary Dropdown options
// @Description List active options of a master entity, optionally filtered by parent_id
// @Tags dropdowns
// @Produce json
// @Security BearerAuth
// @Param entity path string true "Entity slug"
// @Param parent_id query int false "Parent id for dependent dropdowns"
// @Success 200 {array} DropdownOption
// @Failure 404 {object} map[string]string "Unknown entity"
// @Router /dropdowns/{entity} [get]
func (h *DropdownHandler) Options(c echo.Context) error {
	source, ok := dropdownSources[c.Param("entity")]
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Unknown dropdown entity"})
	}

	query := h.db.WithContext(c.Request().Context()).
		Table(source.table).
		Select("id, " + source.labelColumn + " AS name").
		Where("is_active = ? AND is_deleted = ?", true, false).
		Order(source.labelColumn + " ASC")

	if raw := c.QueryParam("parent_id"); raw != "" {
		if source.parentColumn == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Entity has no parent filter"})
		}
		parentID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parentID <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid parent_id"})
		}
		query = query.Where(source.parentColumn+" = ?", parentID)
	}

	options := make([]DropdownOption, 0)
	if err := query.Scan(&options).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, options)
}
