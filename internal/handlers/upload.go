package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinegrok-backend/internal/models"
)

// MaxPhotoSize is the largest accepted profile photo.
const MaxPhotoSize = 5 << 20

// PhotoStorage stores profile photos.
type PhotoStorage interface {
	UploadPhoto(userID uuid.UUID, filename, contentType string, data io.Reader) (string, string, error)
}

type UploadHandler struct {
	storage PhotoStorage
}

func NewUploadHandler(storage PhotoStorage) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// Upload godoc
// @Summary     Upload a profile photo
// @Description Stores the photo under the caller's folder and returns its public URL.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       file formData file true "Image, at most 5MB"
// @Success     200 {object} models.UploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     422 {object} models.ValidationErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /api/storage/upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.storage == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxPhotoSize+1<<20)
	if err := c.Request.ParseMultipartForm(MaxPhotoSize); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to parse multipart form",
			Message: err.Error(),
		})
		return
	}

	var header *multipart.FileHeader
	fieldNames := []string{"file", "photo", "image"}
	for _, name := range fieldNames {
		if files := c.Request.MultipartForm.File[name]; len(files) > 0 {
			header = files[0]
			break
		}
	}
	if header == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file uploaded",
			Message: fmt.Sprintf("please provide the photo in one of these fields: %v", fieldNames),
		})
		return
	}

	contentType := header.Header.Get("Content-Type")
	fields := map[string]string{}
	if !strings.HasPrefix(contentType, "image/") {
		fields["file"] = "Only image files can be uploaded"
	}
	if header.Size > MaxPhotoSize {
		fields["file"] = "Photo must be 5MB or smaller"
	}
	if len(fields) > 0 {
		validationFailed(c, fields)
		return
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to read file", Message: err.Error()})
		return
	}
	defer f.Close()

	path, url, err := h.storage.UploadPhoto(userID, header.Filename, contentType, f)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to upload photo", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, models.UploadResponse{Path: path, URL: url})
}
