package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/researchx-app/researchx-gobackend/internal/config"
	"github.com/researchx-app/researchx-gobackend/internal/db"
	"github.com/researchx-app/researchx-gobackend/internal/handlers"
	"github.com/researchx-app/researchx-gobackend/internal/middleware"
	"github.com/researchx-app/researchx-gobackend/internal/services"
)

func main() {
	// Load .env
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env: %s", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Connect to MongoDB
	client, err := db.Connect(context.Background(), cfg.Mongo.URI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}()
	log.Println("Successfully connected to MongoDB")

	database := client.Database(cfg.Mongo.Database)
	development := cfg.IsDevelopment()

	// Initialize services and handlers
	projectStore := services.NewMongoProjectStore(database)
	paystack := services.NewPaystackService(&cfg.Paystack)
	paymentService := services.NewPaymentService(projectStore, paystack, &cfg.Paystack)
	paymentHandler := handlers.NewPaymentHandler(paymentService, development)

	plagiarismService := services.NewPlagiarismService(&cfg.Plagiarism)
	plagiarismHandler := handlers.NewPlagiarismHandler(plagiarismService, development)

	authService := services.NewAuthService(&cfg.Auth)
	authHandler := handlers.NewAuthHandler(authService, development)

	userService := services.NewUserService(database, cfg.Server.JWTSecret)
	userHandler := handlers.NewUserHandler(userService, development)

	// Set up router
	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "HEAD")

	router.HandleFunc("/check", plagiarismHandler.Check).Methods("POST")
	router.HandleFunc("/status", plagiarismHandler.Status).Methods("GET")

	router.HandleFunc("/initiate/{projectID}", paymentHandler.Initiate).Methods("GET")
	router.HandleFunc("/verify/{projectID}", paymentHandler.Verify).Methods("POST")

	router.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	router.HandleFunc("/auth/legacy/signup", userHandler.Signup).Methods("POST")
	router.HandleFunc("/auth/legacy/login", userHandler.Login).Methods("POST")

	limit, err := middleware.NewIPRateLimiter(cfg.RateLimit.PerIP)
	if err != nil {
		log.Fatalf("Invalid rate limit %q: %v", cfg.RateLimit.PerIP, err)
	}

	// Start server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      limit(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("Server running on port %s", cfg.Server.Port)
	log.Fatal(server.ListenAndServe())
}
