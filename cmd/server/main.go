// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/adlift/adcampaign-backend/internal/adplatform"
	"github.com/adlift/adcampaign-backend/internal/auth"
	"github.com/adlift/adcampaign-backend/internal/db"
	"github.com/adlift/adcampaign-backend/internal/handler"
	"github.com/adlift/adcampaign-backend/internal/queue"
	"github.com/adlift/adcampaign-backend/internal/repository"
	"github.com/adlift/adcampaign-backend/internal/service"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	secret := []byte(os.Getenv("SESSION_SECRET"))
	if len(secret) == 0 {
		log.Fatal("SESSION_SECRET is required")
	}

	campaignRepo := &repository.CampaignRepository{DB: db.DB}
	userRepo := &repository.UserRepository{DB: db.DB}

	platform := adplatform.NewHTTPClient(
		os.Getenv("AD_PLATFORM_URL"),
		os.Getenv("AD_PLATFORM_API_KEY"),
	)

	// With a broker configured, draft syncs are handled by cmd/worker;
	// otherwise an in-process subscriber picks them up.
	var q queue.Queue
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		amqpQueue, err := queue.NewAMQPQueue(amqpURL)
		if err != nil {
			log.Fatal("failed to connect to RabbitMQ:", err)
		}
		defer amqpQueue.Close()
		q = amqpQueue
	} else {
		inMem := queue.NewInMemoryQueue()
		queue.StartDraftSyncSubscriber(inMem, campaignRepo, platform)
		q = inMem
	}

	campaignService := &service.CampaignService{
		CampaignRepo: campaignRepo,
		Platform:     platform,
		Queue:        q,
	}

	campaignHandler := handler.NewCampaignHandler(campaignService)
	authHandler := &handler.AuthHandler{
		Users:         userRepo,
		SessionSecret: secret,
		InternalKey:   os.Getenv("INTERNAL_API_KEY"),
	}

	r := chi.NewRouter()

	r.Post("/auth/google/callback", authHandler.GoogleCallbackHandler)

	// Campaign routes
	r.Route("/campaigns", func(r chi.Router) {
		r.Use(auth.Middleware(secret))
		r.Get("/", campaignHandler.ListCampaignsHandler)
		r.Post("/", campaignHandler.CreateCampaignHandler)
		r.Get("/{id}", campaignHandler.GetCampaignHandler)
		r.Put("/{id}", campaignHandler.UpdateCampaignHandler)
		r.Delete("/{id}", campaignHandler.DeleteCampaignHandler)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("🚀 Server running on :" + port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
