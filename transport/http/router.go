package http

import (
	"github.com/gin-gonic/gin"
	"github.com/layer-3/nearstore/service"
	"github.com/layer-3/nearstore/wallet"
	"go.uber.org/zap"
)

// Deps is everything the router needs
type Deps struct {
	Auth      *service.AuthService
	Market    *service.MarketService
	Sessions  *service.SessionStore
	Facade    *wallet.Facade
	Logger    *zap.Logger
	PublicURL string
}

// SetupRouter sets up the Gin router
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(deps.Logger))

	handlers := NewHandlers(deps)
	signedIn := RequireSignedIn(deps.Sessions)

	// Views
	router.GET("/", handlers.Home)
	router.GET("/store", handlers.Store)
	router.GET("/my", signedIn, handlers.My)
	router.GET("/mint", signedIn, handlers.MintForm)
	router.POST("/mint", signedIn, handlers.Mint)

	// Wallet sign-in round-trip
	auth := router.Group("/auth")
	{
		auth.GET("/signin", handlers.SignIn)
		auth.GET("/callback", handlers.Callback)
		auth.POST("/signout", handlers.SignOut)
	}

	api := router.Group("/api")
	{
		api.GET("/accounts/:id/taken", handlers.AccountTaken)
		api.GET("/balance", signedIn, handlers.Balance)
	}

	return router
}
