package handlers

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"crmadmin/internal/api/middleware"
	"crmadmin/internal/models"
	"crmadmin/internal/utils/logger"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// UploadHandler attaches documents to companies. Files land in object
// storage; only the key and metadata are stored in the database.
type UploadHandler struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUploadHandler(db *gorm.DB) *UploadHandler {
	return &UploadHandler{
		db:  db,
		log: logger.New("upload_handler"),
	}
}

// UploadCompanyDocument handles document uploads for a company
// @Summary Upload a company document
// @Description Upload a document and attach it to a company
// @Tags sales
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param file formData file true "File to upload"
// @Param document_type_id formData int false "Document type"
// @Param description formData string false "Description"
// @Success 201 {object} models.CompanyDocument
// @Failure 400 {object} map[string]string "Validation error or file not found"
// @Failure 404 {object} map[string]string "Company not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /sales/companies/{id}/documents [post]
func (h *UploadHandler) UploadCompanyDocument(c echo.Context) error {
	contentType := c.Request().Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Content-Type must be multipart/form-data",
		})
	}

	companyID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var company models.Company
	if err := h.db.Where("id = ? AND is_deleted = ?", companyID, false).First(&company).Error; err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Company not found"})
	}

	storage := GetStorageHandler()
	if storage == nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Storage handler not configured",
		})
	}

	// Get file from request
	file, err := c.FormFile("file")
	if err != nil {
		_ = h.log.Error("Failed to get file from request", err)
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "No file provided",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to read file",
		})
	}

	fileContentType := file.Header.Get("Content-Type")
	if fileContentType == "" {
		fileContentType = "application/octet-stream"
	}

	key, err := storage.Upload(c.Request().Context(), content, "documents", file.Filename, fileContentType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to upload file",
		})
	}

	document := models.CompanyDocument{
		CompanyID:      companyID,
		DocumentTypeID: formIDRef(c, "document_type_id"),
		FileName:       file.Filename,
		FilePath:       key,
		FileSize:       file.Size,
		Description:    c.FormValue("description"),
	}
	document.SetCreatedBy(middleware.GetActorID(c))

	if err := h.db.Create(&document).Error; err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save document",
		})
	}

	return c.JSON(http.StatusCreated, document)
}

// DeleteCompanyDocument soft-deletes a document row.
// @Summary Delete a company document
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Param docId path int true "Document ID"
// @Success 204 "No content"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /sales/companies/{id}/documents/{docId} [delete]
func (h *UploadHandler) DeleteCompanyDocument(c echo.Context) error {
	companyID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	docID, err := paramID(c, "docId")
	if err != nil {
		return err
	}

	result := h.db.Model(&models.CompanyDocument{}).
		Where("id = ? AND company_id = ? AND is_deleted = ?", docID, companyID, false).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"updated_by": middleware.GetActorID(c),
		})
	if result.Error != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": result.Error.Error()})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found"})
	}

	return c.NoContent(http.StatusNoContent)
}

func formIDRef(c echo.Context, name string) *int64 {
	raw := c.FormValue(name)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
