package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"supportbot/internal/ai"
	appsvc "supportbot/internal/app"
	"supportbot/internal/bootstrap"
	"supportbot/internal/cache"
	"supportbot/internal/platform/rabbitmq"
	"supportbot/internal/repository"
	"supportbot/internal/transport/http/handler"
	"supportbot/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	sessionTTL := app.Config.Chat.SessionCookieTTLSeconds

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/", middleware.Session(sessionTTL), func(c *gin.Context) {
		c.File("web/index.html")
	})
	router.StaticFile("/admin", "web/admin.html")
	router.GET("/healthz", healthHandler.Check)

	fragmentRepo := repository.NewFragmentRepository(app.MySQL)
	conversationRepo := repository.NewConversationRepository(app.MySQL)
	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)
	publisher := rabbitmq.NewMessagePublisher(app.MQConn, app.Config.RabbitMQ.MessagePersistQueue)

	knowledgeService := appsvc.NewKnowledgeService(fragmentRepo)
	retrieval := appsvc.NewRetrievalFilter(fragmentRepo, app.Config.Chat.RetrievalLimit)
	chatService := appsvc.NewChatService(
		retrieval,
		conversationRepo,
		publisher,
		historyCache,
		ai.NewOpenAICompatibleClient(),
		ai.ChatConfig{
			BaseURL: app.Config.LLM.BaseURL,
			APIKey:  app.Config.LLM.APIKey,
			Model:   app.Config.LLM.Model,
		},
		app.Config.Chat.SupportContact,
	)

	chatHandler := handler.NewChatHandler(chatService)
	adminHandler := handler.NewAdminHandler(knowledgeService, chatService)

	router.POST("/chat", middleware.Session(sessionTTL), chatHandler.Chat)

	adminGroup := router.Group("/api/admin")
	adminGroup.GET("/history", adminHandler.History)
	adminGroup.POST("/upload_json", adminHandler.UploadJSON)
	adminGroup.POST("/upload_pdf", adminHandler.UploadPDF)
	adminGroup.GET("/knowledge_files", adminHandler.KnowledgeFiles)

	return router
}
