package controllers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/dmarrero/gin-shop-api/internal/middleware"
	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/dmarrero/gin-shop-api/internal/services"
	"github.com/dmarrero/gin-shop-api/internal/storage"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ImageController handles HTTP requests for image assets
type ImageController interface {
	// UploadImage uploads a single image to the bucket
	UploadImage(c *gin.Context)
	// UploadImages uploads up to ten images in one request
	UploadImages(c *gin.Context)
	// GetImages lists all images, newest first
	GetImages(c *gin.Context)
	// GetImage retrieves a single image by ID
	GetImage(c *gin.Context)
	// DeleteImage removes the image from the bucket and the database
	DeleteImage(c *gin.Context)
}

type imageController struct {
	service services.ImageService
	store   storage.ObjectStore
}

// NewImageController creates a new instance of ImageController
func NewImageController(service services.ImageService, store storage.ObjectStore) *imageController {
	return &imageController{service: service, store: store}
}

// UploadImage godoc
// @Summary Upload an image
// @Description Upload a single image to object storage (admin only)
// @Tags images
// @Accept mpfd
// @Produce json
// @Param image formData file true "Image file"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/images/uploadImage [post]
func (ic *imageController) UploadImage(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}

	file, err := ctx.FormFile("image")
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "the file is required"})
		return
	}

	image, err := saveUpload(ctx, ic.store, ic.service, file, identity.UserID)
	if err != nil {
		respondUploadError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"image": image})
}

// UploadImages godoc
// @Summary Upload multiple images
// @Description Upload up to ten images in a single request (admin only)
// @Tags images
// @Accept mpfd
// @Produce json
// @Param images formData file true "Image files"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/images/uploadMultipleImages [post]
func (ic *imageController) UploadImages(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "the file is required"})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "the file is required"})
		return
	}
	if len(files) > maxUploadBatch {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "too many files"})
		return
	}

	saved := make([]models.Image, 0, len(files))
	for _, file := range files {
		image, err := saveUpload(ctx, ic.store, ic.service, file, identity.UserID)
		if err != nil {
			respondUploadError(ctx, err)
			return
		}
		saved = append(saved, image)
	}

	ctx.JSON(http.StatusCreated, gin.H{"images": saved})
}

// GetImages godoc
// @Summary List images
// @Description Get all images sorted by upload date, newest first
// @Tags images
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/images/getAllImages [get]
func (ic *imageController) GetImages(ctx *gin.Context) {
	images, err := ic.service.GetAllImages()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve images"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"images": images, "count": len(images)})
}

// GetImage godoc
// @Summary Get image by ID
// @Description Get a single image by its ID
// @Tags images
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/images/getImage/{id} [get]
func (ic *imageController) GetImage(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid image ID"})
		return
	}

	image, err := ic.service.GetImageByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"image": image})
}

// DeleteImage godoc
// @Summary Delete an image
// @Description Delete an image from the bucket and remove its metadata (admin only)
// @Tags images
// @Produce json
// @Param id path int true "Image ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/images/deleteImage/{id} [delete]
func (ic *imageController) DeleteImage(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid image ID"})
		return
	}

	image, err := ic.service.GetImageByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	if err := ic.store.Delete(ctx.Request.Context(), image.Key); err != nil {
		log.WithError(err).WithField("key", image.Key).Error("bucket delete failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete image"})
		return
	}

	if err := ic.service.DeleteImage(id); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete image"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"msg": "image deleted"})
}

// saveUpload validates the file, streams it to the object store, and
// persists the metadata record.
func saveUpload(ctx *gin.Context, store storage.ObjectStore, service services.ImageService, file *multipart.FileHeader, uploadedBy uint) (models.Image, error) {
	if err := validateImageUpload(file); err != nil {
		return models.Image{}, err
	}

	src, err := file.Open()
	if err != nil {
		return models.Image{}, err
	}
	defer src.Close()

	key := buildObjectKey(file.Filename)
	contentType := file.Header.Get("Content-Type")

	url, err := store.Put(ctx.Request.Context(), key, contentType, src, file.Size)
	if err != nil {
		return models.Image{}, err
	}

	return service.CreateImage(models.Image{
		URL:          url,
		Key:          key,
		OriginalName: file.Filename,
		MimeType:     contentType,
		Size:         file.Size,
		UploadedBy:   uploadedBy,
	})
}

func respondUploadError(ctx *gin.Context, err error) {
	if errors.Is(err, models.ErrValidation) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.WithError(err).Error("image upload failed")
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
}
