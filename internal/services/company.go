package services

import (
	"context"
	"strings"

	"crmadmin/internal/events"
	"crmadmin/internal/models"

	"gorm.io/gorm"
)

// CompanyService handles account records together with their owned child
// rows. Child slices on an update are authoritative: existing rows are
// replaced, not merged.
type CompanyService struct {
	db *gorm.DB
}

func NewCompanyService(db *gorm.DB) *CompanyService {
	return &CompanyService{db: db}
}

var companyIncludes = []string{"Addresses", "TurnoverRecords", "ProfitRecords", "Documents", "Contacts"}

func (s *CompanyService) checkDuplicateName(tx *gorm.DB, name string, excludeID int64) error {
	query := tx.Model(&models.Company{}).
		Where("LOWER(company_name) = ? AND is_deleted = ?", strings.ToLower(name), false)
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

func (s *CompanyService) Create(ctx context.Context, company *models.Company, actorID *int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkDuplicateName(tx, company.CompanyName, 0); err != nil {
			return err
		}
		company.SetCreatedBy(actorID)
		for i := range company.Addresses {
			company.Addresses[i].SetCreatedBy(actorID)
		}
		for i := range company.TurnoverRecords {
			company.TurnoverRecords[i].SetCreatedBy(actorID)
		}
		for i := range company.ProfitRecords {
			company.ProfitRecords[i].SetCreatedBy(actorID)
		}
		for i := range company.Contacts {
			company.Contacts[i].SetCreatedBy(actorID)
		}
		return tx.Create(company).Error
	})
	if err != nil {
		return err
	}

	events.Emit("tbl_companies.created", events.Mutation{
		Entity:   "tbl_companies",
		EntityID: company.ID,
		Action:   models.AuditActionCreate,
		ActorID:  actorID,
		Payload:  company,
	})
	return nil
}

func (s *CompanyService) Get(ctx context.Context, id int64) (*models.Company, error) {
	var company models.Company
	query := s.db.WithContext(ctx).Where("is_deleted = ?", false)
	for _, include := range companyIncludes {
		query = query.Preload(include, "is_deleted = ?", false)
	}
	if err := query.First(&company, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (s *CompanyService) List(ctx context.Context, params ListParams) ([]models.Company, int64, error) {
	var companies []models.Company
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Company{}).Where("is_deleted = ?", false)
	for key, value := range params.Filters {
		query = query.Where(key+" = ?", value)
	}
	if params.Search != "" {
		query = query.Where("LOWER(company_name) LIKE ?", "%"+strings.ToLower(params.Search)+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Contacts", "is_deleted = ?", false).Order("id ASC")
	if params.Page > 0 && params.Limit > 0 {
		query = query.Offset((params.Page - 1) * params.Limit).Limit(params.Limit)
	}
	if err := query.Find(&companies).Error; err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

// Update replaces the company row and recreates every child slice present in
// the payload. Documents are managed through the upload endpoints and left
// untouched here.
func (s *CompanyService) Update(ctx context.Context, id int64, company *models.Company, actorID *int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Company
		if err := tx.Where("id = ? AND is_deleted = ?", id, false).First(&existing).Error; err != nil {
			return err
		}
		if company.CompanyName != "" {
			if err := s.checkDuplicateName(tx, company.CompanyName, id); err != nil {
				return err
			}
		}

		company.SetUpdatedBy(actorID)
		if err := tx.Model(&existing).
			Omit("id", "created_by", "created_at", "Addresses", "TurnoverRecords", "ProfitRecords", "Documents", "Contacts").
			Updates(company).Error; err != nil {
			return err
		}

		if company.Addresses != nil {
			if err := tx.Where("company_id = ?", id).Delete(&models.CompanyAddress{}).Error; err != nil {
				return err
			}
			for i := range company.Addresses {
				company.Addresses[i].ID = 0
				company.Addresses[i].CompanyID = id
				company.Addresses[i].SetCreatedBy(actorID)
			}
			if len(company.Addresses) > 0 {
				if err := tx.Create(&company.Addresses).Error; err != nil {
					return err
				}
			}
		}
		if company.TurnoverRecords != nil {
			if err := tx.Where("company_id = ?", id).Delete(&models.CompanyTurnover{}).Error; err != nil {
				return err
			}
			for i := range company.TurnoverRecords {
				company.TurnoverRecords[i].ID = 0
				company.TurnoverRecords[i].CompanyID = id
				company.TurnoverRecords[i].SetCreatedBy(actorID)
			}
			if len(company.TurnoverRecords) > 0 {
				if err := tx.Create(&company.TurnoverRecords).Error; err != nil {
					return err
				}
			}
		}
		if company.ProfitRecords != nil {
			if err := tx.Where("company_id = ?", id).Delete(&models.CompanyProfit{}).Error; err != nil {
				return err
			}
			for i := range company.ProfitRecords {
				company.ProfitRecords[i].ID = 0
				company.ProfitRecords[i].CompanyID = id
				company.ProfitRecords[i].SetCreatedBy(actorID)
			}
			if len(company.ProfitRecords) > 0 {
				if err := tx.Create(&company.ProfitRecords).Error; err != nil {
					return err
				}
			}
		}
		if company.Contacts != nil {
			if err := tx.Where("company_id = ?", id).Delete(&models.Contact{}).Error; err != nil {
				return err
			}
			for i := range company.Contacts {
				company.Contacts[i].ID = 0
				company.Contacts[i].CompanyID = id
				company.Contacts[i].SetCreatedBy(actorID)
			}
			if len(company.Contacts) > 0 {
				if err := tx.Create(&company.Contacts).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	events.Emit("tbl_companies.updated", events.Mutation{
		Entity:   "tbl_companies",
		EntityID: id,
		Action:   models.AuditActionUpdate,
		ActorID:  actorID,
		Payload:  company,
	})
	return nil
}

// Delete soft-deletes the company and its child rows.
func (s *CompanyService) Delete(ctx context.Context, id int64, actorID *int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Company{}).
			Where("id = ? AND is_deleted = ?", id, false).
			Updates(map[string]interface{}{"is_deleted": true, "updated_by": actorID})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		for _, child := range []interface{}{
			&models.CompanyAddress{}, &models.CompanyTurnover{},
			&models.CompanyProfit{}, &models.CompanyDocument{}, &models.Contact{},
		} {
			if err := tx.Model(child).
				Where("company_id = ? AND is_deleted = ?", id, false).
				Updates(map[string]interface{}{"is_deleted": true, "updated_by": actorID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	events.Emit("tbl_companies.deleted", events.Mutation{
		Entity:   "tbl_companies",
		EntityID: id,
		Action:   models.AuditActionDelete,
		ActorID:  actorID,
	})
	return nil
}
