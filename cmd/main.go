package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"slginvoice/internal/caching"
	"slginvoice/internal/handlers"
	"slginvoice/internal/jobs"
	"slginvoice/internal/middleware"
	"slginvoice/internal/repositories"
	"slginvoice/internal/services"
	"slginvoice/pkg/database"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret, sessions will not survive restarts")
	}

	// Operator credential. The password is supplied as a bcrypt hash so the
	// plaintext never appears in the environment.
	operatorUsername := os.Getenv("OPERATOR_USERNAME")
	operatorPasswordHash := os.Getenv("OPERATOR_PASSWORD_HASH")
	if operatorUsername == "" || operatorPasswordHash == "" {
		log.Fatal("OPERATOR_USERNAME and OPERATOR_PASSWORD_HASH environment variables are required")
	}

	sessionTTL := 12 * time.Hour
	if ttlStr := os.Getenv("SESSION_TTL_HOURS"); ttlStr != "" {
		if hours, err := strconv.Atoi(ttlStr); err == nil && hours > 0 {
			sessionTTL = time.Duration(hours) * time.Hour
		}
	}
	secureCookies := os.Getenv("SECURE_COOKIES") == "true"

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default Redis address
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0 // Default DB
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000" // Default MinIO endpoint
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin" // Default for development
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin" // Default for development
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"
	assetBucket := os.Getenv("MINIO_BUCKET")
	if assetBucket == "" {
		assetBucket = "slg-invoice-assets"
	}

	// Initialize MinIO service
	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}
	if err := minioSvc.EnsureBucketExists(context.Background(), assetBucket); err != nil {
		log.Fatalf("Failed to ensure asset bucket exists: %v", err)
	}

	// Create repositories
	invoiceRepo := repositories.NewInvoiceRepo(pool)
	signatureRepo := repositories.NewSignatureRepo(pool)
	stampRepo := repositories.NewStampRepo(pool)

	// Create session store
	sessionStore := caching.NewRedisSessionStore(redisAddr, redisPassword, redisDB)

	// Create services
	invoiceSvc := services.NewInvoiceService(invoiceRepo)
	assetSvc := services.NewAssetService(signatureRepo, stampRepo, minioSvc, assetBucket)
	authSvc := services.NewAuthService(sessionStore, services.OperatorCredential{
		Username:     operatorUsername,
		PasswordHash: operatorPasswordHash,
	}, jwtSecret, sessionTTL)

	// Create handlers
	authHandlers := handlers.NewAuthHandlers(authSvc, sessionTTL, secureCookies)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, assetSvc)
	assetHandlers := handlers.NewAssetHandlers(assetSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, sessionStore)

	// Background sequence audit
	auditor, err := jobs.NewSequenceAuditor(invoiceRepo)
	if err != nil {
		log.Fatalf("Failed to create sequence auditor: %v", err)
	}
	auditor.Start()
	defer func() {
		if err := auditor.Stop(); err != nil {
			log.Printf("Failed to stop sequence auditor: %v", err)
		}
	}()

	// Create Echo instance
	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Public routes
	e.GET("/health", healthHandlers.HealthCheck)
	e.POST("/login", authHandlers.Login)

	// Protected routes. The JWT layer verifies the session cookie signature,
	// RequireSession checks the session is still live in Redis.
	jwtConfig := echojwt.Config{
		SigningKey:  []byte(jwtSecret),
		TokenLookup: "cookie:" + middleware.SessionCookie,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(services.SessionClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid session")
		},
	}

	protected := e.Group("")
	protected.Use(echojwt.WithConfig(jwtConfig))
	protected.Use(middleware.RequireSession(sessionStore))

	protected.POST("/logout", authHandlers.Logout)

	protected.GET("/invoices", invoiceHandlers.ListInvoices)
	protected.POST("/invoices", invoiceHandlers.CreateInvoice)
	protected.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	protected.GET("/invoices/:id/preview", invoiceHandlers.PreviewInvoice)
	protected.GET("/invoices/:id/pdf", invoiceHandlers.DownloadInvoicePDF)
	protected.DELETE("/invoices/:id", invoiceHandlers.DeleteInvoice)

	protected.GET("/signatures", assetHandlers.ListSignatures)
	protected.POST("/signatures", assetHandlers.UploadSignature)
	protected.DELETE("/signatures/:id", assetHandlers.DeleteSignature)

	protected.GET("/stamps", assetHandlers.ListStamps)
	protected.POST("/stamps", assetHandlers.UploadStamp)
	protected.DELETE("/stamps/:id", assetHandlers.DeleteStamp)

	// Start server
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("SLG invoicing server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
