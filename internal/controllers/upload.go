package controllers

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmarrero/gin-shop-api/internal/models"
)

// maxUploadSize caps image uploads at 5 MB.
const maxUploadSize = 5 << 20

// maxUploadBatch caps the number of files in a multi-upload request.
const maxUploadBatch = 10

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// validateImageUpload checks the size limit and the extension allowlist.
func validateImageUpload(file *multipart.FileHeader) error {
	if file.Size > maxUploadSize {
		return fmt.Errorf("%w: file exceeds the 5MB limit", models.ErrValidation)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return fmt.Errorf("%w: only image files are allowed", models.ErrValidation)
	}
	return nil
}

// buildObjectKey namespaces uploads and prefixes a timestamp so repeated
// uploads of the same filename never collide.
func buildObjectKey(filename string) string {
	return fmt.Sprintf("uploads/%d-%s", time.Now().UnixMilli(), filepath.Base(filename))
}
