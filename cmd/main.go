package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	_ "github.com/dmarrero/gin-shop-api/docs" // Import generated docs
	"github.com/dmarrero/gin-shop-api/internal/auth"
	"github.com/dmarrero/gin-shop-api/internal/config"
	"github.com/dmarrero/gin-shop-api/internal/controllers"
	"github.com/dmarrero/gin-shop-api/internal/database"
	"github.com/dmarrero/gin-shop-api/internal/mail"
	"github.com/dmarrero/gin-shop-api/internal/middleware"
	"github.com/dmarrero/gin-shop-api/internal/models"
	"github.com/dmarrero/gin-shop-api/internal/services"
	"github.com/dmarrero/gin-shop-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db            *gorm.DB
	configuration *config.Config

	tokenManager *auth.TokenManager

	authController    *controllers.AuthController
	userController    controllers.UserController
	productController controllers.ProductController
	reviewController  controllers.ReviewController
	orderController   controllers.OrderController
	imageController   controllers.ImageController
)

// @title Shop API
// @version 1.0
// @description An e-commerce API with cookie-based sessions, product catalog, reviews, orders and image uploads
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name accessToken
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Session token issuer shared by the login handler and the auth middleware
	tokenManager = auth.NewTokenManager(configuration.JWTSecret, configuration.SessionTTL)

	// Object storage for image assets
	store, err := storage.NewS3Store(context.Background(), configuration)
	checkPanicErr(err)

	// Outbound mail: fall back to log-only delivery when no relay is configured
	var mailer mail.Sender
	if configuration.SMTPHost != "" {
		mailer = mail.NewSMTPSender(
			configuration.SMTPHost, configuration.SMTPPort,
			configuration.SMTPUsername, configuration.SMTPPassword,
			configuration.MailFrom, configuration.Origin,
		)
	} else {
		log.Warn("SMTP_HOST not set, outbound mail will only be logged")
		mailer = mail.LogSender{}
	}

	// Initialize services and controllers
	userService := services.NewUserService(db)
	productService := services.NewProductService(db)
	reviewService := services.NewReviewService(db)
	orderService := services.NewOrderService(db)
	imageService := services.NewImageService(db)

	authController = controllers.NewAuthController(userService, tokenManager, mailer, configuration.ResetTokenTTL, configuration.Production())
	userController = controllers.NewUserController(userService)
	productController = controllers.NewProductController(productService, imageService, store)
	reviewController = controllers.NewReviewController(reviewService)
	orderController = controllers.NewOrderController(orderService)
	imageController = controllers.NewImageController(imageService, store)

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	log.Info("Loading configuration from environment variables")
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	log.Infof("Configuration loaded: %+v", conf)
	return conf
}

// setupDatabase initializes the database connection and migrates the schema
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.FromAppConfig(conf))
	checkPanicErr(err)
	return db
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	router := gin.Default()

	// Global middleware: rate limiting, security headers, CORS
	limiter := middleware.NewRateLimiter(configuration.RateLimitRequests, configuration.RateLimitWindow)
	router.Use(limiter.Limit())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(configuration.CORSOrigin))

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// The API documentation is the landing page
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})

	authenticate := middleware.Authenticate(tokenManager)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		// Authentication routes
		authApi := v1.Group("/auth")
		{
			authApi.POST("/register", authController.Register)
			authApi.POST("/verify-email", authController.VerifyEmail)
			authApi.POST("/login", authController.Login)
			authApi.POST("/logout", authenticate, authController.Logout)
			authApi.POST("/forgot-password", authController.ForgotPassword)
			authApi.POST("/reset-password", authController.ResetPassword)
		}

		// User management (all authenticated; listing is admin only)
		usersApi := v1.Group("/users")
		usersApi.Use(authenticate)
		{
			usersApi.GET("", adminOnly, userController.GetAllUsers)
			usersApi.GET("/showMe", userController.ShowMe)
			usersApi.PATCH("/updateUser", userController.UpdateUser)
			usersApi.PATCH("/updateUserPassword", userController.UpdateUserPassword)
			usersApi.GET("/:id", userController.GetUserByID)
		}

		// Product catalog: reads are public, writes are admin only
		productsApi := v1.Group("/products")
		{
			productsApi.GET("", productController.GetAllProducts)
			productsApi.GET("/:id", productController.GetProductByID)
			productsApi.GET("/:id/reviews", reviewController.GetProductReviews)
			productsApi.POST("", authenticate, adminOnly, productController.CreateProduct)
			productsApi.PATCH("/:id", authenticate, adminOnly, productController.UpdateProduct)
			productsApi.DELETE("/:id", authenticate, adminOnly, productController.DeleteProduct)
			productsApi.POST("/:id/uploadImage", authenticate, adminOnly, productController.UploadProductImage)
		}

		// Reviews: reads are public, writes require authentication
		reviewsApi := v1.Group("/reviews")
		{
			reviewsApi.GET("", reviewController.GetAllReviews)
			reviewsApi.GET("/:id", reviewController.GetReviewByID)
			reviewsApi.POST("", authenticate, reviewController.CreateReview)
			reviewsApi.PATCH("/:id", authenticate, reviewController.UpdateReview)
			reviewsApi.DELETE("/:id", authenticate, reviewController.DeleteReview)
		}

		// Orders: everything requires authentication, listing all is admin only
		ordersApi := v1.Group("/orders")
		ordersApi.Use(authenticate)
		{
			ordersApi.GET("", adminOnly, orderController.GetAllOrders)
			ordersApi.GET("/showAllMyOrders", orderController.GetMyOrders)
			ordersApi.GET("/:id", orderController.GetOrderByID)
			ordersApi.POST("", orderController.CreateOrder)
			ordersApi.PATCH("/:id", orderController.PayOrder)
		}

		// Images: reads require authentication, writes are admin only
		imagesApi := v1.Group("/images")
		imagesApi.Use(authenticate)
		{
			imagesApi.POST("/uploadImage", adminOnly, imageController.UploadImage)
			imagesApi.POST("/uploadMultipleImages", adminOnly, imageController.UploadImages)
			imagesApi.GET("/getAllImages", imageController.GetImages)
			imagesApi.GET("/getImage/:id", imageController.GetImage)
			imagesApi.DELETE("/deleteImage/:id", adminOnly, imageController.DeleteImage)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "gin-shop-api",
	})
}
