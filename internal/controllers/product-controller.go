package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmarrero/gin-shop-api/internal/middleware"
	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/dmarrero/gin-shop-api/internal/services"
	"github.com/dmarrero/gin-shop-api/internal/storage"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ProductController handles HTTP requests related to the product catalog
type ProductController interface {
	// GetAllProducts retrieves all products
	GetAllProducts(c *gin.Context)
	// GetProductByID retrieves a product by its ID, with reviews
	GetProductByID(c *gin.Context)
	// CreateProduct creates a new product
	CreateProduct(c *gin.Context)
	// UpdateProduct updates an existing product
	UpdateProduct(c *gin.Context)
	// DeleteProduct deletes a product by its ID
	DeleteProduct(c *gin.Context)
	// UploadProductImage stores an image in the bucket and attaches it to the product
	UploadProductImage(c *gin.Context)
}

type productController struct {
	service      services.ProductService
	imageService services.ImageService
	store        storage.ObjectStore
}

// NewProductController creates a new instance of ProductController
func NewProductController(service services.ProductService, imageService services.ImageService, store storage.ObjectStore) *productController {
	return &productController{service: service, imageService: imageService, store: store}
}

// GetAllProducts godoc
// @Summary Get all products
// @Description Get a list of all products with optional filtering
// @Tags products
// @Produce json
// @Param name query string false "Filter by product name (partial match)"
// @Param category query string false "Filter by category"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /api/v1/products [get]
func (pc *productController) GetAllProducts(ctx *gin.Context) {
	name := ctx.Query("name")
	category := ctx.Query("category")

	products, err := pc.service.GetAllProducts(name, category)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve products"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProductByID godoc
// @Summary Get product by ID
// @Description Get a single product by its ID, including its reviews
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/products/{id} [get]
func (pc *productController) GetProductByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	product, err := pc.service.GetProductByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": product})
}

// CreateProduct godoc
// @Summary Create a new product
// @Description Create a new product with the input payload (admin only)
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.Product true "Product object"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /api/v1/products [post]
func (pc *productController) CreateProduct(ctx *gin.Context) {
	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}
	product.CreatedBy = identity.UserID

	created, err := pc.service.CreateProduct(product)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"product": created})
}

// UpdateProduct godoc
// @Summary Update a product
// @Description Update a product with the input payload (admin only)
// @Tags products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param product body models.Product true "Product object"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/products/{id} [patch]
func (pc *productController) UpdateProduct(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	existing, err := pc.service.GetProductByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product.ID = id
	// Preserve the original creator
	product.CreatedBy = existing.CreatedBy

	updated, err := pc.service.UpdateProduct(product)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"product": updated})
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Delete a product by its ID (admin only)
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/products/{id} [delete]
func (pc *productController) DeleteProduct(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	if err := pc.service.DeleteProduct(id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"msg": "product deleted"})
}

// UploadProductImage godoc
// @Summary Upload a product image
// @Description Upload an image to object storage and set it as the product's display image (admin only)
// @Tags products
// @Accept mpfd
// @Produce json
// @Param id path int true "Product ID"
// @Param image formData file true "Image file"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/products/{id}/uploadImage [post]
func (pc *productController) UploadProductImage(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	if _, err := pc.service.GetProductByID(id); err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

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

	image, err := saveUpload(ctx, pc.store, pc.imageService, file, identity.UserID)
	if err != nil {
		respondUploadError(ctx, err)
		return
	}

	if err := pc.service.SetProductImage(id, image.URL); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to attach image"})
		return
	}

	log.WithFields(log.Fields{"product_id": id, "key": image.Key}).Info("product image uploaded")
	ctx.JSON(http.StatusCreated, gin.H{"image": image})
}

func parseIDParam(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
