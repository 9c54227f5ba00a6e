package access

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"crmadmin/internal/models"
)

// MenuNode is one node of the resolved menu tree. Field names are the wire
// contract the frontend navigation renderer depends on.
type MenuNode struct {
	ID          int64       `json:"id"`
	ModuleID    int64       `json:"module_id"`
	Name        string      `json:"name"`
	Path        string      `json:"path"`
	IsSidebar   bool        `json:"is_sidebar"`
	Icon        string      `json:"icon"`
	OrderIndex  int         `json:"order_index"`
	Permissions []string    `json:"permissions"`
	Children    []*MenuNode `json:"children"`
}

// UserAccess is the full effective-access view for one user: identity fields,
// assigned module ids and the permission-annotated menu tree.
type UserAccess struct {
	ID              int64       `json:"id"`
	Username        string      `json:"username"`
	FullName        string      `json:"full_name"`
	Email           string      `json:"email"`
	RoleID          *int64      `json:"role_id"`
	AssignedModules []int64     `json:"assigned_modules"`
	Menus           []*MenuNode `json:"menus"`
}

// Resolve computes the user's accessible modules and, for each, the menu tree
// pruned to nodes the user can reach. Per menu, the effective permission set
// is the union of the role grant and the user grant; a node with no
// permissions and no surviving children is omitted. Dangling permission ids
// and malformed CSV fragments are dropped silently; only a database failure
// is an error.
func Resolve(ctx context.Context, db *gorm.DB, user *models.User) (*UserAccess, error) {
	out := &UserAccess{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		Email:           user.Email,
		RoleID:          user.RoleID,
		AssignedModules: ParseIDList(user.AssignModules),
		Menus:           make([]*MenuNode, 0),
	}
	if len(out.AssignedModules) == 0 {
		// No assigned modules is a valid terminal state, not an error.
		return out, nil
	}

	var menus []models.Menu
	if err := db.WithContext(ctx).
		Where("module_id IN ? AND is_active = ? AND is_deleted = ?", out.AssignedModules, true, false).
		Order("id ASC").
		Find(&menus).Error; err != nil {
		return nil, err
	}

	menuGrants := make(map[int64]IDSet)
	addGrants := func(menuID int64, csv string) {
		ids := ParseIDList(csv)
		if len(ids) == 0 {
			return
		}
		set, ok := menuGrants[menuID]
		if !ok {
			set = make(IDSet)
			menuGrants[menuID] = set
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}

	if user.RoleID != nil {
		var rolePerms []models.RolePermission
		if err := db.WithContext(ctx).
			Where("role_id = ? AND module_id IN ? AND is_active = ? AND is_deleted = ?",
				*user.RoleID, out.AssignedModules, true, false).
			Find(&rolePerms).Error; err != nil {
			return nil, err
		}
		for _, rp := range rolePerms {
			addGrants(rp.MenuID, rp.PermissionIDs)
		}
	}

	var userPerms []models.UserPermission
	if err := db.WithContext(ctx).
		Where("user_id = ? AND module_id IN ? AND is_active = ? AND is_deleted = ?",
			user.ID, out.AssignedModules, true, false).
		Find(&userPerms).Error; err != nil {
		return nil, err
	}
	for _, up := range userPerms {
		addGrants(up.MenuID, up.PermissionIDs)
	}

	permNames, err := resolvePermissionNames(ctx, db, menuGrants)
	if err != nil {
		return nil, err
	}

	// Index children by parent id so tree construction is a single pass over
	// the loaded rows instead of a rescan per node. Load order (id ASC) is
	// preserved within each parent.
	roots := make([]models.Menu, 0)
	byParent := make(map[int64][]models.Menu)
	for _, m := range menus {
		if m.ParentID == nil {
			roots = append(roots, m)
		} else {
			byParent[*m.ParentID] = append(byParent[*m.ParentID], m)
		}
	}

	var build func(m models.Menu) *MenuNode
	build = func(m models.Menu) *MenuNode {
		names := grantNames(menuGrants[m.ID], permNames)
		children := make([]*MenuNode, 0)
		for _, c := range byParent[m.ID] {
			if node := build(c); node != nil {
				children = append(children, node)
			}
		}
		if len(names) == 0 && len(children) == 0 {
			return nil
		}
		return &MenuNode{
			ID:          m.ID,
			ModuleID:    m.ModuleID,
			Name:        m.Name,
			Path:        m.Path,
			IsSidebar:   m.IsSidebar,
			Icon:        m.Icon,
			OrderIndex:  m.OrderIndex,
			Permissions: names,
			Children:    children,
		}
	}

	for _, root := range roots {
		if node := build(root); node != nil {
			out.Menus = append(out.Menus, node)
		}
	}
	return out, nil
}

// resolvePermissionNames bulk-fetches the names for every granted permission
// id, restricted to active, non-deleted permissions. Ids with no matching row
// are simply absent from the result.
func resolvePermissionNames(ctx context.Context, db *gorm.DB, grants map[int64]IDSet) (map[int64]string, error) {
	all := make(IDSet)
	for _, set := range grants {
		for id := range set {
			all[id] = struct{}{}
		}
	}
	names := make(map[int64]string, len(all))
	if len(all) == 0 {
		return names, nil
	}

	ids := make([]int64, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	var perms []models.Permission
	if err := db.WithContext(ctx).
		Where("id IN ? AND is_active = ? AND is_deleted = ?", ids, true, false).
		Find(&perms).Error; err != nil {
		return nil, err
	}
	for _, p := range perms {
		names[p.ID] = p.Name
	}
	return names, nil
}

// grantNames maps a grant set to permission names in ascending id order, so
// repeated resolutions of the same data produce identical output.
func grantNames(set IDSet, names map[int64]string) []string {
	out := make([]string, 0, len(set))
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if name, ok := names[id]; ok {
			out = append(out, name)
		}
	}
	return out
}
