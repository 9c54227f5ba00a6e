package services

import (
	"context"
	"sort"

	"crmadmin/internal/access"
	"crmadmin/internal/events"
	"crmadmin/internal/models"

	"gorm.io/gorm"
)

// GrantEntry is one (module, menu) grant in a bulk assignment request.
type GrantEntry struct {
	ModuleID      int64  `json:"module_id" validate:"required"`
	MenuID        int64  `json:"menu_id" validate:"required"`
	PermissionIDs string `json:"permission_ids" validate:"omitempty,id_csv"`
}

// GrantView is a grant row enriched with resolved permission names, the shape
// the assignment screens consume.
type GrantView struct {
	ID              int64    `json:"id"`
	ModuleID        int64    `json:"module_id"`
	MenuID          int64    `json:"menu_id"`
	MenuName        string   `json:"menu_name"`
	PermissionIDs   string   `json:"permission_ids"`
	PermissionNames []string `json:"permission_names"`
}

// GrantService manages role and user permission grants. Writes upsert by the
// (owner, module, menu) triple so repeated assignments replace the CSV in
// place instead of stacking rows.
type GrantService struct {
	db *gorm.DB
}

func NewGrantService(db *gorm.DB) *GrantService {
	return &GrantService{db: db}
}

// AssignRolePermissions upserts one grant row per entry for the role.
func (s *GrantService) AssignRolePermissions(ctx context.Context, roleID int64, entries []GrantEntry, actorID *int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			var existing models.RolePermission
			err := tx.Where("role_id = ? AND module_id = ? AND menu_id = ? AND is_deleted = ?",
				roleID, entry.ModuleID, entry.MenuID, false).First(&existing).Error
			switch {
			case err == nil:
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"permission_ids": entry.PermissionIDs,
					"updated_by":     actorID,
				}).Error; err != nil {
					return err
				}
			case err == gorm.ErrRecordNotFound:
				row := models.RolePermission{
					RoleID:        roleID,
					ModuleID:      entry.ModuleID,
					MenuID:        entry.MenuID,
					PermissionIDs: entry.PermissionIDs,
				}
				row.SetCreatedBy(actorID)
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	events.Emit("tbl_role_permissions.assigned", events.Mutation{
		Entity:   "tbl_role_permissions",
		EntityID: roleID,
		Action:   models.AuditActionUpdate,
		ActorID:  actorID,
		Payload:  entries,
	})
	return nil
}

// AssignUserPermissions upserts one grant row per entry for the user.
func (s *GrantService) AssignUserPermissions(ctx context.Context, userID int64, entries []GrantEntry, actorID *int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			var existing models.UserPermission
			err := tx.Where("user_id = ? AND module_id = ? AND menu_id = ? AND is_deleted = ?",
				userID, entry.ModuleID, entry.MenuID, false).First(&existing).Error
			switch {
			case err == nil:
				if err := tx.Model(&existing).Updates(map[string]interface{}{
					"permission_ids": entry.PermissionIDs,
					"updated_by":     actorID,
				}).Error; err != nil {
					return err
				}
			case err == gorm.ErrRecordNotFound:
				row := models.UserPermission{
					UserID:        userID,
					ModuleID:      entry.ModuleID,
					MenuID:        entry.MenuID,
					PermissionIDs: entry.PermissionIDs,
				}
				row.SetCreatedBy(actorID)
				if err := tx.Create(&row).Error; err != nil {
					return err
				}
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	events.Emit("tbl_user_permissions.assigned", events.Mutation{
		Entity:   "tbl_user_permissions",
		EntityID: userID,
		Action:   models.AuditActionUpdate,
		ActorID:  actorID,
		Payload:  entries,
	})
	return nil
}

// ListRolePermissions returns the role's live grant rows with names resolved.
func (s *GrantService) ListRolePermissions(ctx context.Context, roleID int64) ([]GrantView, error) {
	var rows []models.RolePermission
	if err := s.db.WithContext(ctx).
		Where("role_id = ? AND is_active = ? AND is_deleted = ?", roleID, true, false).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]GrantView, 0, len(rows))
	for _, row := range rows {
		views = append(views, GrantView{
			ID:            row.ID,
			ModuleID:      row.ModuleID,
			MenuID:        row.MenuID,
			PermissionIDs: row.PermissionIDs,
		})
	}
	return s.enrich(ctx, views)
}

// ListUserPermissions returns the user's live grant rows with names resolved.
func (s *GrantService) ListUserPermissions(ctx context.Context, userID int64) ([]GrantView, error) {
	var rows []models.UserPermission
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND is_deleted = ?", userID, true, false).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]GrantView, 0, len(rows))
	for _, row := range rows {
		views = append(views, GrantView{
			ID:            row.ID,
			ModuleID:      row.ModuleID,
			MenuID:        row.MenuID,
			PermissionIDs: row.PermissionIDs,
		})
	}
	return s.enrich(ctx, views)
}

// enrich fills MenuName and PermissionNames with two bulk lookups. Permission
// ids that resolve to nothing are dropped silently.
func (s *GrantService) enrich(ctx context.Context, views []GrantView) ([]GrantView, error) {
	if len(views) == 0 {
		return views, nil
	}

	menuIDs := make([]int64, 0, len(views))
	permSet := access.IDSet{}
	for _, view := range views {
		menuIDs = append(menuIDs, view.MenuID)
		for _, id := range access.ParseIDList(view.PermissionIDs) {
			permSet[id] = struct{}{}
		}
	}

	var menus []models.Menu
	if err := s.db.WithContext(ctx).Where("id IN ?", menuIDs).Find(&menus).Error; err != nil {
		return nil, err
	}
	menuNames := make(map[int64]string, len(menus))
	for _, menu := range menus {
		menuNames[menu.ID] = menu.Name
	}

	permIDs := make([]int64, 0, len(permSet))
	for id := range permSet {
		permIDs = append(permIDs, id)
	}

	permNames := make(map[int64]string, len(permIDs))
	if len(permIDs) > 0 {
		var perms []models.Permission
		if err := s.db.WithContext(ctx).
			Where("id IN ? AND is_active = ? AND is_deleted = ?", permIDs, true, false).
			Find(&perms).Error; err != nil {
			return nil, err
		}
		for _, perm := range perms {
			permNames[perm.ID] = perm.Name
		}
	}

	for i := range views {
		views[i].MenuName = menuNames[views[i].MenuID]
		ids := access.ParseIDList(views[i].PermissionIDs)
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
		names := make([]string, 0, len(ids))
		for _, id := range ids {
			if name, ok := permNames[id]; ok {
				names = append(names, name)
			}
		}
		views[i].PermissionNames = names
	}
	return views, nil
}
