package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmadmin/internal/models"
)

func TestExportCompaniesCSV(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db, nil)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Company{CompanyName: "Acme Industries", GSTNo: "GST123"}).Error)
	require.NoError(t, db.Create(&models.Company{CompanyName: "Bright Co"}).Error)
	deleted := models.Company{CompanyName: "Gone Ltd"}
	require.NoError(t, db.Create(&deleted).Error)
	require.NoError(t, db.Model(&deleted).Update("is_deleted", true).Error)

	data, err := svc.ExportCompaniesCSV(ctx)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 live rows
	assert.Equal(t, "company_name", records[0][0])
	assert.Equal(t, "Acme Industries", records[1][0])
	assert.Equal(t, "GST123", records[1][1])
	assert.Equal(t, "Bright Co", records[2][0])
}

func TestExportUsersCSVOmitsPasswordHash(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db, nil)

	require.NoError(t, db.Create(&models.User{
		FullName:     "Asha Verma",
		Username:     "asha",
		Email:        "asha@example.com",
		PasswordHash: "bcrypt-secret",
	}).Error)

	data, err := svc.ExportUsersCSV(context.Background())
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "asha@example.com")
	assert.NotContains(t, out, "bcrypt-secret")

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "full_name", records[0][0])
	assert.Equal(t, "Asha Verma", records[1][0])
}

func TestExportCSVUnknownEntity(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db, nil)

	_, err := svc.ExportCSV(context.Background(), "invoices")
	assert.Error(t, err)
}

func TestImportCompaniesCSV(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db, nil)
	ctx := context.Background()

	// Existing company collides with the second data row
	require.NoError(t, db.Create(&models.Company{CompanyName: "Bright Co"}).Error)

	input := strings.Join([]string{
		"company_name,gst_no,website",
		"Acme Industries,GST123,https://acme.example.com",
		"Bright Co,,",
		",missing name,",
	}, "\n")

	result, err := svc.ImportCompaniesCSV(ctx, []byte(input), ptr(5))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 2, result.Failed)
	assert.Len(t, result.Errors, 2)

	var created models.Company
	require.NoError(t, db.Where("company_name = ?", "Acme Industries").First(&created).Error)
	assert.Equal(t, "GST123", created.GSTNo)
	require.NotNil(t, created.CreatedBy)
	assert.Equal(t, int64(5), *created.CreatedBy)
}

func TestImportCompaniesFromStorageWithoutStorage(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db, nil)

	_, err := svc.ImportCompaniesFromStorage(context.Background(), "exports/whatever.csv", nil)
	assert.Error(t, err)
}

func TestImportCompaniesCSVRequiresHeader(t *testing.T) {
	db := newTestDB(t)
	svc := NewExportService(db, nil)

	_, err := svc.ImportCompaniesCSV(context.Background(), []byte("name\nAcme"), nil)
	assert.Error(t, err)
}
