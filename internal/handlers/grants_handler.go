package handlers

import (
	"net/http"
	"strconv"

	"crmadmin/internal/api/middleware"
	"crmadmin/internal/api/validator"
	"crmadmin/internal/models"
	"crmadmin/internal/services"
	"crmadmin/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// GrantsHandler exposes the permission assignment screens: role grants, user
// grant overrides and the per-user module list.
type GrantsHandler struct {
	db     *gorm.DB
	grants *services.GrantService
	log    *logger.Logger
}

func NewGrantsHandler(db *gorm.DB) *GrantsHandler {
	return &GrantsHandler{
		db:     db,
		grants: services.NewGrantService(db),
		log:    logger.New("GrantsHandler"),
	}
}

func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name+" parameter")
	}
	return id, nil
}

// AssignRolePermissions replaces the grant CSV for each (module, menu) pair.
// @Summary Assign permissions to a role
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param request body validator.AssignGrantsRequest true "Grants"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Role not found"
// @Router /roles/{id}/permissions [post]
func (h *GrantsHandler) AssignRolePermissions(c echo.Context) error {
	roleID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var role models.Role
	if err := h.db.Where("id = ? AND is_deleted = ?", roleID, false).First(&role).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Role not found"})
	}

	var req validator.AssignGrantsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.grants.AssignRolePermissions(c.Request().Context(), roleID, req.Grants, middleware.GetActorID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Permissions assigned"})
}

// ListRolePermissions returns the role's grants with permission names.
// @Summary List role permissions
// @Tags permissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {array} services.GrantView
// @Router /roles/{id}/permissions [get]
func (h *GrantsHandler) ListRolePermissions(c echo.Context) error {
	roleID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	views, err := h.grants.ListRolePermissions(c.Request().Context(), roleID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, views)
}

// AssignUserPermissions replaces the override CSV for each (module, menu) pair.
// @Summary Assign permission overrides to a user
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body validator.AssignGrantsRequest true "Grants"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/permissions [post]
func (h *GrantsHandler) AssignUserPermissions(c echo.Context) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var user models.User
	if err := h.db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	var req validator.AssignGrantsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.grants.AssignUserPermissions(c.Request().Context(), userID, req.Grants, middleware.GetActorID(c)); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Permissions assigned"})
}

// ListUserPermissions returns the user's override grants with names.
// @Summary List user permission overrides
// @Tags permissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {array} services.GrantView
// @Router /users/{id}/permissions [get]
func (h *GrantsHandler) ListUserPermissions(c echo.Context) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	views, err := h.grants.ListUserPermissions(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, views)
}

// AssignModules replaces the user's visible module list.
// @Summary Assign modules to a user
// @Tags permissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body validator.AssignModulesRequest true "Module ids CSV"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/modules [post]
func (h *GrantsHandler) AssignModules(c echo.Context) error {
	userID, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var user models.User
	if err := h.db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "User not found"})
	}

	var req validator.AssignModulesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	if err := h.db.Model(&user).Updates(map[string]interface{}{
		"assign_modules": req.AssignModules,
		"updated_by":     middleware.GetActorID(c),
	}).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Modules assigned"})
}
