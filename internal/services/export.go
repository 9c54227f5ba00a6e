package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"crmadmin/internal/models"
	"crmadmin/internal/utils/logger"

	"gorm.io/gorm"
)

var exportLog = logger.New("export_service")

// ImportResult summarises a CSV import run. Row numbers are 1-based and
// include the header row.
type ImportResult struct {
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}

// ExportService builds CSV snapshots of sales data and replays them back in.
// Generated files can be pushed to object storage for download links.
type ExportService struct {
	db        *gorm.DB
	storage   *S3Service
	companies *CompanyService
}

func NewExportService(db *gorm.DB, storage *S3Service) *ExportService {
	return &ExportService{
		db:        db,
		storage:   storage,
		companies: NewCompanyService(db),
	}
}

var companyCSVHeader = []string{
	"company_name", "gst_no", "pan_no", "website", "company_profile",
	"industry_segment_id", "account_type_id", "business_type_id", "company_type_id",
}

var contactCSVHeader = []string{
	"company_id", "first_name", "last_name", "email", "contact_no", "designation", "is_primary",
}

var userCSVHeader = []string{
	"full_name", "username", "email", "contact_no", "role_id", "assign_modules", "is_active",
}

// ExportCompaniesCSV renders every live company as one CSV row.
func (s *ExportService) ExportCompaniesCSV(ctx context.Context) ([]byte, error) {
	var companies []models.Company
	if err := s.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("id ASC").
		Find(&companies).Error; err != nil {
		return nil, exportLog.Error("failed to load companies for export", err)
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	if err := writer.Write(companyCSVHeader); err != nil {
		return nil, err
	}
	for _, company := range companies {
		record := []string{
			company.CompanyName,
			company.GSTNo,
			company.PANNo,
			company.Website,
			company.CompanyProfile,
			formatIDRef(company.IndustrySegmentID),
			formatIDRef(company.AccountTypeID),
			formatIDRef(company.BusinessTypeID),
			formatIDRef(company.CompanyTypeID),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	exportLog.Info("📦 Exported %d companies", len(companies))
	return buf.Bytes(), nil
}

// ExportContactsCSV renders every live contact as one CSV row.
func (s *ExportService) ExportContactsCSV(ctx context.Context) ([]byte, error) {
	var contacts []models.Contact
	if err := s.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("id ASC").
		Find(&contacts).Error; err != nil {
		return nil, exportLog.Error("failed to load contacts for export", err)
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	if err := writer.Write(contactCSVHeader); err != nil {
		return nil, err
	}
	for _, contact := range contacts {
		record := []string{
			strconv.FormatInt(contact.CompanyID, 10),
			contact.FirstName,
			contact.LastName,
			contact.Email,
			contact.ContactNo,
			contact.Designation,
			strconv.FormatBool(contact.IsPrimary),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	exportLog.Info("📦 Exported %d contacts", len(contacts))
	return buf.Bytes(), nil
}

// ExportUsersCSV renders every live account as one CSV row. Password hashes
// never leave the database.
func (s *ExportService) ExportUsersCSV(ctx context.Context) ([]byte, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("id ASC").
		Find(&users).Error; err != nil {
		return nil, exportLog.Error("failed to load users for export", err)
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)
	if err := writer.Write(userCSVHeader); err != nil {
		return nil, err
	}
	for _, user := range users {
		record := []string{
			user.FullName,
			user.Username,
			user.Email,
			user.ContactNo,
			formatIDRef(user.RoleID),
			user.AssignModules,
			strconv.FormatBool(user.IsActive),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	exportLog.Info("📦 Exported %d users", len(users))
	return buf.Bytes(), nil
}

// ExportCSV dispatches by entity name.
func (s *ExportService) ExportCSV(ctx context.Context, entity string) ([]byte, error) {
	switch entity {
	case "companies":
		return s.ExportCompaniesCSV(ctx)
	case "contacts":
		return s.ExportContactsCSV(ctx)
	case "users":
		return s.ExportUsersCSV(ctx)
	default:
		return nil, fmt.Errorf("entity %q is not exportable", entity)
	}
}

// UploadExport stores a generated file under exports/ and returns a download
// URL valid for 24 hours.
func (s *ExportService) UploadExport(ctx context.Context, data []byte, entity string) (string, string, error) {
	if s.storage == nil {
		return "", "", fmt.Errorf("object storage is not configured")
	}
	filename := fmt.Sprintf("%s-%s.csv", entity, time.Now().Format("20060102-150405"))
	key, err := s.storage.Upload(ctx, data, "exports", filename, "text/csv")
	if err != nil {
		return "", "", err
	}
	url, err := s.storage.GetSignedURL(ctx, key, 24*time.Hour)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// ImportCompaniesCSV creates one company per data row. Bad rows are skipped
// and reported; good rows still land.
func (s *ExportService) ImportCompaniesCSV(ctx context.Context, data []byte, actorID *int64) (*ImportResult, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, exportLog.Error("failed to parse CSV", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV has no data rows")
	}

	header := records[0]
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["company_name"]; !ok {
		return nil, fmt.Errorf("CSV is missing the company_name column")
	}

	result := &ImportResult{Errors: []string{}}
	for rowNum, record := range records[1:] {
		result.Total++
		company := models.Company{
			CompanyName:       cell(record, col, "company_name"),
			GSTNo:             cell(record, col, "gst_no"),
			PANNo:             cell(record, col, "pan_no"),
			Website:           cell(record, col, "website"),
			CompanyProfile:    cell(record, col, "company_profile"),
			IndustrySegmentID: parseIDRef(cell(record, col, "industry_segment_id")),
			AccountTypeID:     parseIDRef(cell(record, col, "account_type_id")),
			BusinessTypeID:    parseIDRef(cell(record, col, "business_type_id")),
			CompanyTypeID:     parseIDRef(cell(record, col, "company_type_id")),
		}
		if company.CompanyName == "" {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: company_name is required", rowNum+2))
			continue
		}
		if err := s.companies.Create(ctx, &company, actorID); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum+2, err))
			continue
		}
		result.Created++
	}

	exportLog.Info("📥 Imported %d/%d companies", result.Created, result.Total)
	return result, nil
}

// ImportCompaniesFromStorage runs the company import against a CSV object
// previously uploaded to object storage.
func (s *ExportService) ImportCompaniesFromStorage(ctx context.Context, key string, actorID *int64) (*ImportResult, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("object storage is not configured")
	}
	data, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.ImportCompaniesCSV(ctx, data, actorID)
}

func cell(record []string, col map[string]int, name string) string {
	idx, ok := col[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func formatIDRef(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func parseIDRef(s string) *int64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
