package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"crmadmin/internal/models"
)

func newCountryService(t *testing.T) (BaseService[models.Country], *gorm.DB) {
	db := newTestDB(t)
	return NewBaseService(db, models.Country{}, "name"), db
}

func TestBaseServiceCreateStampsActor(t *testing.T) {
	svc, db := newCountryService(t)

	country := models.Country{Name: "India", Code: "IN"}
	require.NoError(t, svc.Create(context.Background(), &country, ptr(7)))

	var stored models.Country
	require.NoError(t, db.First(&stored, country.ID).Error)
	require.NotNil(t, stored.CreatedBy)
	assert.Equal(t, int64(7), *stored.CreatedBy)
}

func TestBaseServiceRejectsDuplicateName(t *testing.T) {
	svc, _ := newCountryService(t)

	require.NoError(t, svc.Create(context.Background(), &models.Country{Name: "India"}, nil))

	err := svc.Create(context.Background(), &models.Country{Name: "india"}, nil)
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestBaseServiceAllowsReusingDeletedName(t *testing.T) {
	svc, _ := newCountryService(t)
	ctx := context.Background()

	first := models.Country{Name: "India"}
	require.NoError(t, svc.Create(ctx, &first, nil))
	require.NoError(t, svc.Delete(ctx, first.ID, nil))

	assert.NoError(t, svc.Create(ctx, &models.Country{Name: "India"}, nil))
}

func TestBaseServiceGetSkipsDeleted(t *testing.T) {
	svc, _ := newCountryService(t)
	ctx := context.Background()

	country := models.Country{Name: "India"}
	require.NoError(t, svc.Create(ctx, &country, nil))
	require.NoError(t, svc.Delete(ctx, country.ID, ptr(3)))

	_, err := svc.Get(ctx, country.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBaseServiceDeleteMissingRow(t *testing.T) {
	svc, _ := newCountryService(t)

	err := svc.Delete(context.Background(), 999, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBaseServiceUpdateRejectsOtherRowsName(t *testing.T) {
	svc, _ := newCountryService(t)
	ctx := context.Background()

	india := models.Country{Name: "India"}
	nepal := models.Country{Name: "Nepal"}
	require.NoError(t, svc.Create(ctx, &india, nil))
	require.NoError(t, svc.Create(ctx, &nepal, nil))

	nepal.Name = "INDIA"
	err := svc.Update(ctx, nepal.ID, &nepal, nil)
	assert.ErrorIs(t, err, ErrDuplicateName)

	// Keeping its own name is fine
	india.Name = "India"
	assert.NoError(t, svc.Update(ctx, india.ID, &india, nil))
}

func TestBaseServiceListSearchAndPagination(t *testing.T) {
	svc, _ := newCountryService(t)
	ctx := context.Background()

	names := []string{"India", "Indonesia", "Nepal", "Netherlands"}
	for _, name := range names {
		require.NoError(t, svc.Create(ctx, &models.Country{Name: name}, nil))
	}

	results, total, err := svc.List(ctx, ListParams{Page: 1, Limit: 10, Search: "ind"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, results, 2)
	assert.Equal(t, "India", results[0].Name)

	// Page past results still reports the real total
	results, total, err = svc.List(ctx, ListParams{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, results, 1)
}

func TestBaseServiceListExcludesDeleted(t *testing.T) {
	svc, _ := newCountryService(t)
	ctx := context.Background()

	keep := models.Country{Name: "India"}
	drop := models.Country{Name: "Nepal"}
	require.NoError(t, svc.Create(ctx, &keep, nil))
	require.NoError(t, svc.Create(ctx, &drop, nil))
	require.NoError(t, svc.Delete(ctx, drop.ID, nil))

	results, total, err := svc.List(ctx, ListParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "India", results[0].Name)
}
