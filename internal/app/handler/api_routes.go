package handler

import (
	"tender-backend/internal/app/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты.
// Аутентификация — в middleware, авторизация — в обработчиках
// через единую таблицу прав (пакет role).
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.RegisterUser)
		auth.POST("/login", h.AuthHandler.LoginUser)

		// Защищенные эндпоинты
		auth.POST("/logout", authMiddleware.WithAuthCheck(), h.AuthHandler.LogoutUser)
		auth.GET("/profile", authMiddleware.WithAuthCheck(), h.AuthHandler.GetUserProfile)
	}

	// ============ Тендеры ============
	tenders := api.Group("/tenders")
	tenders.Use(authMiddleware.WithAuthCheck())
	{
		tenders.GET("", h.GetTenders)
		tenders.GET("/:id", h.GetTender)
		tenders.GET("/:id/bids", h.GetTenderBids)
		tenders.POST("", h.CreateTender)
		tenders.PUT("/:id", h.UpdateTender)
		tenders.DELETE("/:id", h.DeleteTender)
	}

	// ============ Заявки (bids) ============
	bids := api.Group("/bids")
	bids.Use(authMiddleware.WithAuthCheck())
	{
		bids.GET("", h.GetBids)
		bids.GET("/my_bids", h.GetMyBids)
		bids.GET("/:id", h.GetBid)
		bids.POST("", h.CreateBid)
		bids.PUT("/:id", h.UpdateBid)
		bids.DELETE("/:id", h.DeleteBid)
		bids.POST("/:id/select_winner", h.SelectWinner)
		bids.POST("/:id/documents", h.UploadBidDocuments)
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}
