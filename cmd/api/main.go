// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	awssession "github.com/aws/aws-sdk-go/aws/session"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/stvnptra/picshare/internal/auth"
	"github.com/stvnptra/picshare/internal/common/database"
	"github.com/stvnptra/picshare/internal/common/middleware"
	"github.com/stvnptra/picshare/internal/config"
	"github.com/stvnptra/picshare/internal/feed"
	"github.com/stvnptra/picshare/internal/notification"
	"github.com/stvnptra/picshare/internal/posts"
	"github.com/stvnptra/picshare/internal/profile"
	"github.com/stvnptra/picshare/internal/session"
	"github.com/stvnptra/picshare/internal/store"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting PicShare API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	log.Println("✅ Configuration loaded")

	// 3. Validate configuration
	log.Println("\n✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed: ", err)
	}
	log.Println("✅ Configuration is valid")

	ctx := context.Background()

	// 4. Connect to Firebase
	log.Println("\n🔥 Step 4: Connecting to Firebase...")
	app, err := database.NewFirebaseApp(ctx, cfg.FirebaseProjectID, cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Fatal("❌ Failed to initialize Firebase: ", err)
	}

	firestoreClient, err := database.NewFirestoreClient(ctx, app)
	if err != nil {
		log.Fatal("❌ Failed to create Firestore client: ", err)
	}
	defer firestoreClient.Close()
	log.Println("   ✅ Firestore client ready")

	authClient, err := database.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatal("❌ Failed to create Firebase Auth client: ", err)
	}
	log.Println("   ✅ Firebase Auth client ready")
	log.Println("✅ Connected to Firebase successfully")

	// 5. Connect to Redis
	log.Println("\n📮 Step 5: Connecting to Redis...")
	redisClient, err := database.NewRedisClientFromURL(cfg.RedisURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to Redis: ", err)
	}
	defer redisClient.Close()
	log.Println("✅ Connected to Redis successfully")

	// 6. Initialize storage
	log.Println("\n🗄️  Step 6: Initializing storage...")
	docStore := store.NewDocStore(firestoreClient)

	awsSession := awssession.Must(awssession.NewSession(&aws.Config{
		Region: aws.String(cfg.AWSRegion),
	}))
	blobStore := store.NewBlobStore(awsSession, cfg.S3Bucket)
	log.Printf("   ✅ Using S3 bucket %s for image uploads", cfg.S3Bucket)
	log.Println("✅ Storage initialized")

	// 7. Initialize email
	log.Println("\n📧 Step 7: Initializing email...")
	var mailer notification.Mailer
	switch cfg.EmailProvider {
	case "sendgrid":
		mailer, err = notification.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName)
		if err != nil {
			log.Fatal("❌ Failed to initialize SendGrid: ", err)
		}
		log.Println("   ✅ Using SendGrid for emails")
	default:
		mailer = notification.NewMockMailer()
		log.Println("   ⚠️  Using mock email provider (development mode)")
	}
	log.Println("✅ Email initialized")

	// 8. Initialize Auth system
	log.Println("\n🔐 Step 8: Initializing authentication system...")

	identity, err := auth.NewFirebaseIdentity(ctx, authClient, cfg.FirebaseWebAPIKey)
	if err != nil {
		log.Fatal("❌ Failed to initialize identity provider: ", err)
	}

	sessionManager := session.NewManager()
	profileRepo := profile.NewRepository(docStore)

	authService := auth.NewService(identity, profileRepo, sessionManager, mailer, &auth.Config{
		TicketSecret: cfg.TicketSecret,
		TicketExpiry: cfg.TicketExpiry,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)

	rateLimiter := middleware.NewRateLimiter(redisClient, cfg.LoginAttemptsMax, cfg.LoginAttemptsWindow)
	log.Println("✅ Authentication system initialized")

	// 9. Initialize Profile module
	log.Println("\n👤 Step 9: Initializing Profile module...")
	profileService := profile.NewService(profileRepo, blobStore)
	profileHandler := profile.NewHandler(profileService)
	log.Println("✅ Profile module initialized")

	// 10. Initialize Posts module
	log.Println("\n📝 Step 10: Initializing Posts module...")
	postsRepo := posts.NewRepository(docStore)
	postsService := posts.NewService(postsRepo, blobStore)
	postsHandler := posts.NewHandler(postsService)
	log.Println("✅ Posts module initialized")

	// 11. Initialize live feed
	log.Println("\n📡 Step 11: Initializing live feed...")
	hubCtx, stopHub := context.WithCancel(ctx)
	feedHub := feed.NewHub(docStore)
	go feedHub.Run(hubCtx)
	feedHandler := feed.NewHandler(feedHub, authService)
	log.Println("✅ Live feed hub started")

	// 12. Setup routes
	log.Println("\n🛣️  Step 12: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	auth.RegisterRoutes(router, authHandler, authMiddleware, rateLimiter)
	log.Println("   ✅ Auth routes registered")

	profile.RegisterRoutes(router, profileHandler, authMiddleware.Authenticate)
	log.Println("   ✅ Profile routes registered")

	posts.RegisterRoutes(router, postsHandler, authMiddleware)
	log.Println("   ✅ Posts routes registered")

	feed.RegisterRoutes(router, feedHandler)
	log.Println("   ✅ Feed websocket registered")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)
	router.Use(middleware.Metrics)

	// 13. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server: ", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	log.Println("   - Shutting down feed hub...")
	stopHub()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("❌ Server forced to shutdown: ", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, time.Since(start))
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
