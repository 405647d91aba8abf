package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexlink/nexlink-backend/internal/handler"
	"github.com/nexlink/nexlink-backend/internal/middleware"
	"github.com/nexlink/nexlink-backend/pkg/jwt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	chatHandler *handler.ChatHandler,
	notificationHandler *handler.NotificationHandler,
	userHandler *handler.UserHandler,
	postHandler *handler.PostHandler,
	adminHandler *handler.AdminHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
	authLimiter *middleware.RateLimiter,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket upgrade. Only this route accepts the token query parameter,
	// because browsers cannot set headers on upgrade requests.
	router.GET("/ws", middleware.JWTAuthUpgrade(jwtManager), wsHandler.Connect)

	api := router.Group("/api")

	// Authentication (rate limited, no auth required except /me)
	auth := api.Group("/auth")
	auth.POST("/register", authLimiter.Middleware(), authHandler.Register)
	auth.POST("/login", authLimiter.Middleware(), authHandler.Login)
	auth.POST("/refresh", authLimiter.Middleware(), authHandler.Refresh)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.Me)

	// Everything below requires authentication
	authed := api.Group("", middleware.JWTAuth(jwtManager))

	// Conversations and messages
	chat := authed.Group("/chat")
	{
		chat.GET("/conversations", chatHandler.ListConversations)
		chat.POST("/conversation/start", chatHandler.StartConversation)
		chat.DELETE("/conversation/:roomId", chatHandler.DeleteConversation)

		chat.POST("/group", chatHandler.CreateGroup)
		chat.PATCH("/group/:roomId", chatHandler.UpdateGroup)
		chat.POST("/group/:roomId/members", chatHandler.AddMember)
		chat.DELETE("/group/:roomId/members/:userId", chatHandler.RemoveMember)
		chat.POST("/group/:roomId/leave", chatHandler.LeaveGroup)

		chat.GET("/:roomId/messages", chatHandler.ListMessages)
		chat.POST("/:roomId/messages", chatHandler.SendMessage)
		chat.PUT("/message/:id", chatHandler.UpdateMessage)
		chat.DELETE("/message/:id", chatHandler.DeleteMessage)
		chat.PUT("/read/:roomId", chatHandler.MarkRead)
	}

	// Notifications
	notifications := authed.Group("/notifications")
	{
		notifications.GET("", notificationHandler.GetList)
		notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
		notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
		notifications.POST("/subscribe", notificationHandler.Subscribe)
	}

	// Users and follows
	users := authed.Group("/users")
	{
		users.PATCH("/me", userHandler.UpdateProfile)
		users.GET("/:id", userHandler.GetProfile)
		users.POST("/:id/follow", userHandler.Follow)
		users.DELETE("/:id/follow", userHandler.Unfollow)
		users.GET("/:id/followers", userHandler.Followers)
		users.GET("/:id/following", userHandler.Following)
		users.GET("/:id/posts", postHandler.UserPosts)
	}

	// Posts
	posts := authed.Group("/posts")
	{
		posts.GET("/feed", postHandler.Feed)
		posts.POST("", postHandler.Create)
		posts.GET("/:id", postHandler.Get)
		posts.DELETE("/:id", postHandler.Delete)
		posts.POST("/:id/like", postHandler.Like)
		posts.DELETE("/:id/like", postHandler.Unlike)
		posts.POST("/:id/comments", postHandler.CreateComment)
		posts.GET("/:id/comments", postHandler.ListComments)
	}

	// Admin user management
	admin := authed.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.PATCH("/users/:id", adminHandler.UpdateUser)
		admin.POST("/users/:id/coins", adminHandler.AdjustCoins)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)
	}
}
