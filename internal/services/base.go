package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"crmadmin/internal/events"
	"crmadmin/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateName is returned when a create or update would reuse the name
// of another live row. The comparison is case-insensitive.
var ErrDuplicateName = errors.New("record with this name already exists")

// ListParams carries the query-string knobs of a list endpoint.
type ListParams struct {
	Page    int
	Limit   int
	Search  string
	Filters map[string]interface{}
	Sort    string
	Order   string
}

// BaseService interface defines common CRUD operations
type BaseService[T any] interface {
	Create(ctx context.Context, entity *T, actorID *int64, includes ...string) error
	Get(ctx context.Context, id int64, includes ...string) (*T, error)
	List(ctx context.Context, params ListParams, includes ...string) ([]T, int64, error)
	Update(ctx context.Context, id int64, entity *T, actorID *int64, includes ...string) error
	Delete(ctx context.Context, id int64, actorID *int64) error
}

// BaseServiceImpl implements BaseService
type BaseServiceImpl[T any] struct {
	db         *gorm.DB
	modelType  T
	nameColumn string
}

func GormTableName(db *gorm.DB, v any) string {
	if tabler, ok := v.(interface{ TableName() string }); ok {
		return tabler.TableName()
	}
	structName := reflect.TypeOf(v).Name()
	return db.NamingStrategy.TableName(structName)
}

// NewBaseService creates a new base service. nameColumn is the column used
// for duplicate checks and search; pass "" for entities without one.
func NewBaseService[T any](db *gorm.DB, modelType T, nameColumn string) BaseService[T] {
	return &BaseServiceImpl[T]{
		db:         db,
		modelType:  modelType,
		nameColumn: nameColumn,
	}
}

// applyIncludes adds preload statements to the query for each include
func (s *BaseServiceImpl[T]) applyIncludes(query *gorm.DB, includes ...string) *gorm.DB {
	for _, include := range includes {
		query = query.Preload(include)
	}
	return query
}

// checkDuplicateName rejects a name already used by another live row.
// excludeID skips the row being updated.
func (s *BaseServiceImpl[T]) checkDuplicateName(ctx context.Context, entity *T, excludeID int64) error {
	if s.nameColumn == "" {
		return nil
	}
	name := s.nameValue(entity)
	if name == "" {
		return nil
	}

	query := s.db.WithContext(ctx).Model(s.modelType).
		Where(fmt.Sprintf("LOWER(%s) = ?", s.nameColumn), strings.ToLower(name)).
		Where("is_deleted = ?", false)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateName
	}
	return nil
}

// nameValue reads the struct field backing nameColumn.
func (s *BaseServiceImpl[T]) nameValue(entity *T) string {
	v := reflect.ValueOf(entity).Elem()
	field := v.FieldByNameFunc(func(n string) bool {
		return strings.EqualFold(strings.ReplaceAll(s.nameColumn, "_", ""), n)
	})
	if !field.IsValid() || field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}

func (s *BaseServiceImpl[T]) Create(ctx context.Context, entity *T, actorID *int64, includes ...string) error {
	if err := s.checkDuplicateName(ctx, entity, 0); err != nil {
		return err
	}

	var rowID int64
	if auditable, ok := any(entity).(models.Auditable); ok {
		auditable.SetCreatedBy(actorID)
	}

	if err := s.db.WithContext(ctx).Create(entity).Error; err != nil {
		return err
	}

	if auditable, ok := any(entity).(models.Auditable); ok {
		rowID = auditable.RowID()
	}

	// Reload the entity with includes if any are specified
	if len(includes) > 0 && rowID > 0 {
		if err := s.applyIncludes(s.db.WithContext(ctx), includes...).First(entity, "id = ?", rowID).Error; err != nil {
			return err
		}
	}

	events.Emit(fmt.Sprintf("%s.created", GormTableName(s.db, s.modelType)), events.Mutation{
		Entity:   GormTableName(s.db, s.modelType),
		EntityID: rowID,
		Action:   models.AuditActionCreate,
		ActorID:  actorID,
		Payload:  entity,
	})

	return nil
}

func (s *BaseServiceImpl[T]) Get(ctx context.Context, id int64, includes ...string) (*T, error) {
	var entity T
	query := s.db.WithContext(ctx)
	query = s.applyIncludes(query, includes...)

	// filter deleted entities
	query = query.Where("is_deleted = ?", false)

	if err := query.First(&entity, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

func (s *BaseServiceImpl[T]) List(ctx context.Context, params ListParams, includes ...string) ([]T, int64, error) {
	var entities []T
	var total int64

	query := s.db.WithContext(ctx).Model(s.modelType)

	// Apply filters
	for key, value := range params.Filters {
		query = query.Where(key+" = ?", value)
	}

	// Apply search on the name column
	if params.Search != "" && s.nameColumn != "" {
		query = query.Where(fmt.Sprintf("LOWER(%s) LIKE ?", s.nameColumn), "%"+strings.ToLower(params.Search)+"%")
	}

	// filter deleted entities
	query = query.Where("is_deleted = ?", false)

	// Get total count before pagination
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Apply includes
	query = s.applyIncludes(query, includes...)

	// Apply sort
	if params.Sort != "" {
		order := strings.ToUpper(params.Order)
		if order != "DESC" {
			order = "ASC"
		}
		query = query.Order(fmt.Sprintf("%s %s", params.Sort, order))
	} else {
		query = query.Order("id ASC")
	}

	// Apply pagination
	if params.Page > 0 && params.Limit > 0 {
		offset := (params.Page - 1) * params.Limit
		query = query.Offset(offset).Limit(params.Limit)
	}

	if err := query.Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return entities, total, nil
}

func (s *BaseServiceImpl[T]) Update(ctx context.Context, id int64, entity *T, actorID *int64, includes ...string) error {
	if err := s.checkDuplicateName(ctx, entity, id); err != nil {
		return err
	}

	if auditable, ok := any(entity).(models.Auditable); ok {
		auditable.SetUpdatedBy(actorID)
	}

	result := s.db.WithContext(ctx).Model(entity).
		Where("id = ? AND is_deleted = ?", id, false).
		Omit("id", "created_by", "created_at").
		Updates(entity)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	// Reload the entity with includes if any are specified
	if len(includes) > 0 {
		if err := s.applyIncludes(s.db.WithContext(ctx), includes...).First(entity, "id = ?", id).Error; err != nil {
			return err
		}
	}

	events.Emit(fmt.Sprintf("%s.updated", GormTableName(s.db, s.modelType)), events.Mutation{
		Entity:   GormTableName(s.db, s.modelType),
		EntityID: id,
		Action:   models.AuditActionUpdate,
		ActorID:  actorID,
		Payload:  entity,
	})

	return nil
}

func (s *BaseServiceImpl[T]) Delete(ctx context.Context, id int64, actorID *int64) error {
	result := s.db.WithContext(ctx).Model(s.modelType).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_by": actorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	events.Emit(fmt.Sprintf("%s.deleted", GormTableName(s.db, s.modelType)), events.Mutation{
		Entity:   GormTableName(s.db, s.modelType),
		EntityID: id,
		Action:   models.AuditActionDelete,
		ActorID:  actorID,
	})

	return nil
}
