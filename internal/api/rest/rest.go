package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	router.GET("/", handler.Alive)
	router.GET("/health", handler.HealthCheck)

	// Tile thumbnails, the id may carry a cache-busting "-<hash>" suffix
	router.GET("/gridNFT/:id", handler.GridImage)

	router.POST("/createTx/signature", handler.CreateSignature)
	router.GET("/getNFTs/:user", handler.GetNFTs)

	keplr := router.Group("/connectKeplr")
	keplr.POST("", handler.ConnectKeplr)
	keplr.GET("/checkIfConnected/:user", handler.KeplrConnection)
}
