package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmadmin/internal/services"
)

func TestIDCSVTag(t *testing.T) {
	v := NewValidator()
	require.NotNil(t, v)

	type form struct {
		IDs string `json:"ids" validate:"omitempty,id_csv"`
	}

	cases := []struct {
		ids string
		ok  bool
	}{
		{"", true},
		{"1", true},
		{"1,2,3", true},
		{"1, 2, 3", true},
		{"1,,3", true}, // empty tokens tolerated
		{"0", false},
		{"-1,2", false},
		{"1,abc", false},
	}
	for _, tc := range cases {
		err := v.Validate(&form{IDs: tc.ids})
		if tc.ok {
			assert.NoError(t, err, "ids %q", tc.ids)
		} else {
			assert.Error(t, err, "ids %q", tc.ids)
		}
	}
}

func TestGenderTag(t *testing.T) {
	v := NewValidator()

	type form struct {
		Gender string `json:"gender" validate:"omitempty,gender"`
	}

	assert.NoError(t, v.Validate(&form{Gender: "Male"}))
	assert.NoError(t, v.Validate(&form{Gender: "Female"}))
	assert.NoError(t, v.Validate(&form{Gender: "Other"}))
	assert.NoError(t, v.Validate(&form{}))
	assert.Error(t, v.Validate(&form{Gender: "male"}))
	assert.Error(t, v.Validate(&form{Gender: "unknown"}))
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&LoginRequest{})
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 2)
	assert.Equal(t, "username", verrs[0].Field())
	assert.Equal(t, "password", verrs[1].Field())
}

func TestAssignGrantsRequestValidation(t *testing.T) {
	v := NewValidator()

	assert.Error(t, v.Validate(&AssignGrantsRequest{}))
	assert.Error(t, v.Validate(&AssignGrantsRequest{Grants: []services.GrantEntry{}}))

	ok := AssignGrantsRequest{Grants: []services.GrantEntry{
		{ModuleID: 1, MenuID: 2, PermissionIDs: "1,2"},
	}}
	assert.NoError(t, v.Validate(&ok))

	bad := AssignGrantsRequest{Grants: []services.GrantEntry{
		{ModuleID: 1, MenuID: 2, PermissionIDs: "1,x"},
	}}
	assert.Error(t, v.Validate(&bad))
}
