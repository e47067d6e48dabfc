package controllers

import (
	"errors"
	"net/http"

	"github.com/dmarrero/gin-shop-api/internal/middleware"
	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/dmarrero/gin-shop-api/internal/services"
	"github.com/gin-gonic/gin"
)

// ReviewController handles HTTP requests related to product reviews
type ReviewController interface {
	// CreateReview creates a review for a product
	CreateReview(c *gin.Context)
	// GetAllReviews retrieves all reviews
	GetAllReviews(c *gin.Context)
	// GetReviewByID retrieves a review by its ID
	GetReviewByID(c *gin.Context)
	// GetProductReviews lists the reviews of one product
	GetProductReviews(c *gin.Context)
	// UpdateReview updates a review (author or admin)
	UpdateReview(c *gin.Context)
	// DeleteReview deletes a review (author or admin)
	DeleteReview(c *gin.Context)
}

type reviewController struct {
	service services.ReviewService
}

// NewReviewController creates a new instance of ReviewController
func NewReviewController(service services.ReviewService) *reviewController {
	return &reviewController{service: service}
}

// CreateReview godoc
// @Summary Create a review
// @Description Create a review for a product; one review per user per product
// @Tags reviews
// @Accept json
// @Produce json
// @Param review body models.Review true "Review object"
// @Success 201 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/reviews [post]
func (rc *reviewController) CreateReview(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}

	var review models.Review
	if err := ctx.ShouldBindJSON(&review); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review.UserID = identity.UserID

	created, err := rc.service.CreateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		case errors.Is(err, models.ErrConflict):
			ctx.JSON(http.StatusConflict, gin.H{"error": "product already reviewed"})
		default:
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		}
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"review": created})
}

// GetAllReviews godoc
// @Summary List reviews
// @Description Get all reviews
// @Tags reviews
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/reviews [get]
func (rc *reviewController) GetAllReviews(ctx *gin.Context) {
	reviews, err := rc.service.GetAllReviews()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve reviews"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

// GetReviewByID godoc
// @Summary Get review by ID
// @Description Get a single review by its ID
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/reviews/{id} [get]
func (rc *reviewController) GetReviewByID(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
		return
	}

	review, err := rc.service.GetReviewByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"review": review})
}

// GetProductReviews godoc
// @Summary List a product's reviews
// @Description Get all reviews for a single product
// @Tags reviews
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/products/{id}/reviews [get]
func (rc *reviewController) GetProductReviews(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	reviews, err := rc.service.GetProductReviews(id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve reviews"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"reviews": reviews, "count": len(reviews)})
}

// UpdateReview godoc
// @Summary Update a review
// @Description Update a review; only the author or an admin may do this
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path int true "Review ID"
// @Param review body models.Review true "Review object"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/reviews/{id} [patch]
func (rc *reviewController) UpdateReview(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
		return
	}

	existing, err := rc.service.GetReviewByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}

	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}
	if existing.UserID != identity.UserID && identity.Role != models.RoleAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}

	var review models.Review
	if err := ctx.ShouldBindJSON(&review); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing.Rating = review.Rating
	existing.Title = review.Title
	existing.Comment = review.Comment

	updated, err := rc.service.UpdateReview(existing)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update review"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"review": updated})
}

// DeleteReview godoc
// @Summary Delete a review
// @Description Delete a review; only the author or an admin may do this
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/reviews/{id} [delete]
func (rc *reviewController) DeleteReview(ctx *gin.Context) {
	id, err := parseIDParam(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
		return
	}

	existing, err := rc.service.GetReviewByID(id)
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}

	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "authentication invalid"})
		return
	}
	if existing.UserID != identity.UserID && identity.Role != models.RoleAdmin {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
		return
	}

	if err := rc.service.DeleteReview(id); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete review"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"msg": "review deleted"})
}
