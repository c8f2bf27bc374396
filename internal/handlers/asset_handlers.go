package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"slginvoice/internal/common"
	"slginvoice/internal/repositories"
	"slginvoice/internal/services"

	"github.com/labstack/echo/v4"
)

const maxAssetSize = 5 << 20 // 5 MiB per uploaded image

// AssetHandlers handles HTTP requests for signature and stamp images
type AssetHandlers struct {
	assetService services.AssetService
}

// NewAssetHandlers creates a new asset handlers instance
func NewAssetHandlers(assetService services.AssetService) *AssetHandlers {
	return &AssetHandlers{assetService: assetService}
}

// UploadSignature handles POST /signatures with multipart form fields
// "name" and "image".
func (h *AssetHandlers) UploadSignature(c echo.Context) error {
	name, file, size, contentType, err := h.readUpload(c)
	if err != nil {
		return err
	}
	defer file.Close()

	signature, err := h.assetService.CreateSignature(c.Request().Context(), name, contentType, file, size)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return common.SendValidationError(c, "signature", err.Error())
		}
		return common.SendServerError(c, "Failed to store signature")
	}
	return c.JSON(http.StatusCreated, signature)
}

// ListSignatures handles GET /signatures
func (h *AssetHandlers) ListSignatures(c echo.Context) error {
	signatures, err := h.assetService.ListSignatures(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list signatures")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"signatures": signatures})
}

// DeleteSignature handles DELETE /signatures/:id
func (h *AssetHandlers) DeleteSignature(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.assetService.DeleteSignature(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "signature")
		}
		return common.SendServerError(c, "Failed to delete signature")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Signature deleted successfully"})
}

// UploadStamp handles POST /stamps
func (h *AssetHandlers) UploadStamp(c echo.Context) error {
	name, file, size, contentType, err := h.readUpload(c)
	if err != nil {
		return err
	}
	defer file.Close()

	stamp, err := h.assetService.CreateStamp(c.Request().Context(), name, contentType, file, size)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			return common.SendValidationError(c, "stamp", err.Error())
		}
		return common.SendServerError(c, "Failed to store stamp")
	}
	return c.JSON(http.StatusCreated, stamp)
}

// ListStamps handles GET /stamps
func (h *AssetHandlers) ListStamps(c echo.Context) error {
	stamps, err := h.assetService.ListStamps(c.Request().Context())
	if err != nil {
		return common.SendServerError(c, "Failed to list stamps")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"stamps": stamps})
}

// DeleteStamp handles DELETE /stamps/:id
func (h *AssetHandlers) DeleteStamp(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.assetService.DeleteStamp(c.Request().Context(), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return common.SendNotFoundError(c, "stamp")
		}
		return common.SendServerError(c, "Failed to delete stamp")
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Stamp deleted successfully"})
}

// readUpload validates the multipart request shared by both asset types.
// On failure it writes the error response and returns a non-nil error.
func (h *AssetHandlers) readUpload(c echo.Context) (string, multipart.File, int64, string, error) {
	name := c.FormValue("name")
	if name == "" {
		return "", nil, 0, "", common.SendValidationError(c, "name", "name is required")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", nil, 0, "", common.SendValidationError(c, "image", "image file is required")
	}
	if fileHeader.Size > maxAssetSize {
		return "", nil, 0, "", common.SendValidationError(c, "image", "image exceeds 5 MiB limit")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" {
		return "", nil, 0, "", common.SendValidationError(c, "image", "image must be PNG or JPEG")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, 0, "", common.SendServerError(c, "Failed to read uploaded image")
	}
	return name, file, fileHeader.Size, contentType, nil
}
