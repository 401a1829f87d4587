package main

import (
	"log"

	"github.com/waseem-akram-senarios/surveybot-sub001/internal/config"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/database"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/handlers"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/middleware"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/queue"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/services"
	"github.com/waseem-akram-senarios/surveybot-sub001/internal/ws"

	_ "github.com/waseem-akram-senarios/surveybot-sub001/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Survey Platform API
// @version         1.0
// @description     API for survey creation, delivery and AI-assisted autofill
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()

	authService := services.NewAuthService(db, cfg.JWTSecret)
	templateService := services.NewTemplateService(db)
	surveyService := services.NewSurveyService(db)
	runnerService := services.NewRunnerService(db, surveyService)
	autofillService := services.NewAutofillService(cfg.BrainAPIKey, cfg.BrainAPIURL, cfg.BrainModel)
	voiceService := services.NewVoiceService(cfg.VoiceAPIKey, cfg.VoiceAPIURL, cfg.PublicBaseURL, cfg.VoiceWebhookSecret)

	var queueClient *queue.Client
	if cfg.RedisURL != "" {
		var err error
		queueClient, err = queue.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to queue: %v", err)
		}
		defer queueClient.Close()

		worker := queue.NewAutofillWorker(db, autofillService)
		go func() {
			if err := queue.Run(cfg.RedisURL, worker); err != nil {
				log.Printf("queue worker stopped: %v", err)
			}
		}()
	} else {
		log.Println("REDIS_URL not set, autofill queue disabled")
	}

	authHandler := handlers.NewAuthHandler(authService)
	templateHandler := handlers.NewTemplateHandler(templateService)
	questionHandler := handlers.NewQuestionHandler(templateService)
	surveyHandler := handlers.NewSurveyHandler(surveyService, queueClient)
	runHandler := handlers.NewRunHandler(runnerService, surveyService, hub)
	voiceHandler := handlers.NewVoiceHandler(voiceService, runnerService, surveyService, hub, cfg.VoiceWebhookSecret)
	wsHandler := handlers.NewWSHandler(hub, authService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Service-API-Key"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/dashboard", wsHandler.HandleDashboard)
	r.POST("/webhook/voice/:secret", voiceHandler.HandleWebhook)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		templates := api.Group("/templates")
		templates.Use(middleware.JWTAuth(authService))
		{
			templates.GET("", templateHandler.ListTemplates)
			templates.POST("", templateHandler.CreateTemplate)
			templates.GET("/:id", templateHandler.GetTemplate)
			templates.PUT("/:id", templateHandler.UpdateTemplate)
			templates.DELETE("/:id", templateHandler.DeleteTemplate)
			templates.PUT("/:id/reorder", templateHandler.ReorderTemplate)
			templates.POST("/:id/questions", questionHandler.CreateQuestion)
		}

		questions := api.Group("/questions")
		questions.Use(middleware.JWTAuth(authService))
		{
			questions.PUT("/:id", questionHandler.UpdateQuestion)
			questions.DELETE("/:id", questionHandler.DeleteQuestion)
		}

		surveys := api.Group("/surveys")
		surveys.Use(middleware.JWTAuth(authService))
		{
			surveys.GET("", surveyHandler.ListSurveys)
			surveys.POST("", surveyHandler.LaunchSurvey)
			surveys.GET("/:id", surveyHandler.GetSurvey)
			surveys.GET("/:id/results", surveyHandler.GetResults)
			surveys.DELETE("/:id", surveyHandler.DeleteSurvey)
		}

		run := api.Group("/run")
		{
			run.GET("/:token", runHandler.Load)
			run.POST("/:token/answer", runHandler.Answer)
			run.POST("/:token/next", runHandler.Next)
			run.POST("/:token/previous", runHandler.Previous)
			run.POST("/:token/submit", runHandler.Submit)
			run.POST("/:token/csat", runHandler.RecordCSAT)
		}

		voice := api.Group("/voice")
		voice.Use(middleware.ServiceAuth(cfg.ServiceAPIKey))
		{
			voice.POST("/sessions", voiceHandler.CreateSession)
		}
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
