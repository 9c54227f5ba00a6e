package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"crmadmin/internal/models"
	"crmadmin/internal/services"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// ValidationErrors wraps the validator's ValidationErrors
type ValidationErrors []playgroundvalidator.FieldError

// CustomValidator wraps go-playground/validator
type CustomValidator struct {
	validator *playgroundvalidator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() echo.Validator {
	v := playgroundvalidator.New()

	// Register custom validation tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validations
	err := v.RegisterValidation("gender", validateGender)
	if err != nil {
		return nil
	}
	err = v.RegisterValidation("id_csv", validateIDCSV)
	if err != nil {
		return nil
	}

	return &CustomValidator{validator: v}
}

// Custom validation functions
func validateGender(fl playgroundvalidator.FieldLevel) bool {
	gender := fl.Field().String()
	return gender == models.GenderMale || gender == models.GenderFemale || gender == models.GenderOther
}

// validateIDCSV accepts comma-separated positive integers. Empty tokens are
// tolerated the same way the grant parser tolerates them.
func validateIDCSV(fl playgroundvalidator.FieldLevel) bool {
	raw := fl.Field().String()
	if raw == "" {
		return true
	}
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.ParseInt(token, 10, 64)
		if err != nil || id <= 0 {
			return false
		}
	}
	return true
}

// Validate implements echo.Validator interface
func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		var validationErrors playgroundvalidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return ValidationErrors(validationErrors)
		}
		return err
	}
	return nil
}

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	var fields []string
	for _, err := range ve {
		fields = append(fields, err.Field())
	}
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// Request validation structs for the auth and assignment endpoints

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type AssignGrantsRequest struct {
	Grants []services.GrantEntry `json:"grants" validate:"required,min=1,dive"`
}

type AssignModulesRequest struct {
	AssignModules string `json:"assign_modules" validate:"omitempty,id_csv"`
}

type ImportRequest struct {
	FileKey string `json:"file_key" validate:"required"`
}

type LogCleanupRequest struct {
	RetentionDays int    `json:"retention_days" validate:"omitempty,min=1"`
	Schedule      string `json:"schedule"`
}
