package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"calleroo/handlers"
	"calleroo/middleware"
	"calleroo/utils"
)

// RegisterAgentRoutes registers the agent catalog endpoint.
func RegisterAgentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/agents")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("", hb.Agents.List)
	}
}

// RegisterConversationRoutes registers the slot-filling conversation endpoints.
func RegisterConversationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/conversation")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/turn", hb.Conversation.ProcessTurn)
		api.GET("/:conversationId", hb.Conversation.GetState)
		api.DELETE("/:conversationId", hb.Conversation.Reset)
	}
}

// RegisterPlacesRoutes registers business search endpoints.
func RegisterPlacesRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/places")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/search", hb.Places.Search)
		api.GET("/:placeId/details", hb.Places.Details)
	}
}

// RegisterCallRoutes registers call placement and result endpoints.
func RegisterCallRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/call")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("/brief", hb.Calls.BuildBrief)
		api.POST("/start", hb.Calls.StartCall)
		api.GET("/:callId", hb.Calls.Status)
		api.GET("/:callId/result", hb.Calls.Result)
	}
}

// RegisterTelephonyRoutes registers the voice provider's webhooks. These are
// called by the provider mid-call, not by the app, so they sit outside JWT
// auth.
func RegisterTelephonyRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/telephony")
	{
		api.POST("/voice", hb.Telephony.Voice)
		api.POST("/gather", hb.Telephony.Gather)
		api.POST("/poll", hb.Telephony.Poll)
		api.POST("/status", hb.Telephony.Status)
		api.POST("/recording", hb.Telephony.Recording)
	}
}

// RegisterTaskRoutes registers scheduled-call endpoints.
func RegisterTaskRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tasks")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.POST("", hb.Tasks.Create)
		api.GET("", hb.Tasks.List)
		api.GET("/:taskId", hb.Tasks.Get)
		api.POST("/:taskId/cancel", hb.Tasks.Cancel)
	}
}

// RegisterHealthRoute registers a health-check endpoint reporting the last
// dependency snapshot from the background monitor.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "ok",
			"message":      "Hi, I'm Calleroo",
			"dependencies": utils.GetHealthStatus(),
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())

	RegisterAgentRoutes(r, hb)
	RegisterConversationRoutes(r, hb)
	RegisterPlacesRoutes(r, hb)
	RegisterCallRoutes(r, hb)
	RegisterTelephonyRoutes(r, hb)
	RegisterTaskRoutes(r, hb)
	RegisterHealthRoute(r)
}
