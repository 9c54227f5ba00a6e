package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmadmin/internal/models"
)

func TestCompanyCreateWithChildren(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompanyService(db)
	ctx := context.Background()

	company := models.Company{
		CompanyName: "Acme Industries",
		Addresses: []models.CompanyAddress{
			{Address: "1 Factory Road"},
		},
		TurnoverRecords: []models.CompanyTurnover{
			{Year: 2024, Revenue: 1200000},
		},
		Contacts: []models.Contact{
			{FirstName: "Ravi", LastName: "Sharma", IsPrimary: true},
		},
	}
	require.NoError(t, svc.Create(ctx, &company, ptr(1)))
	require.NotZero(t, company.ID)

	stored, err := svc.Get(ctx, company.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Addresses, 1)
	assert.Len(t, stored.TurnoverRecords, 1)
	assert.Len(t, stored.Contacts, 1)
	assert.Equal(t, company.ID, stored.Contacts[0].CompanyID)
}

func TestCompanyDuplicateNameIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompanyService(db)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &models.Company{CompanyName: "Acme Industries"}, nil))

	err := svc.Create(ctx, &models.Company{CompanyName: "ACME industries"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestCompanyUpdateReplacesChildSlices(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompanyService(db)
	ctx := context.Background()

	company := models.Company{
		CompanyName: "Acme Industries",
		Contacts: []models.Contact{
			{FirstName: "Ravi"},
			{FirstName: "Meera"},
		},
	}
	require.NoError(t, svc.Create(ctx, &company, nil))

	update := models.Company{
		CompanyName: "Acme Industries",
		Contacts: []models.Contact{
			{FirstName: "Kiran"},
		},
	}
	require.NoError(t, svc.Update(ctx, company.ID, &update, ptr(2)))

	stored, err := svc.Get(ctx, company.ID)
	require.NoError(t, err)
	require.Len(t, stored.Contacts, 1)
	assert.Equal(t, "Kiran", stored.Contacts[0].FirstName)
}

func TestCompanyUpdateKeepsChildrenWhenSliceAbsent(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompanyService(db)
	ctx := context.Background()

	company := models.Company{
		CompanyName: "Acme Industries",
		Contacts:    []models.Contact{{FirstName: "Ravi"}},
	}
	require.NoError(t, svc.Create(ctx, &company, nil))

	update := models.Company{Website: "https://acme.example.com"}
	require.NoError(t, svc.Update(ctx, company.ID, &update, nil))

	stored, err := svc.Get(ctx, company.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Contacts, 1)
	assert.Equal(t, "https://acme.example.com", stored.Website)
}

func TestCompanyDeleteCascadesSoftDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewCompanyService(db)
	ctx := context.Background()

	company := models.Company{
		CompanyName: "Acme Industries",
		Contacts:    []models.Contact{{FirstName: "Ravi"}},
	}
	require.NoError(t, svc.Create(ctx, &company, nil))
	require.NoError(t, svc.Delete(ctx, company.ID, ptr(3)))

	_, err := svc.Get(ctx, company.ID)
	assert.Error(t, err)

	var contact models.Contact
	require.NoError(t, db.Where("company_id = ?", company.ID).First(&contact).Error)
	assert.True(t, contact.IsDeleted)
}
