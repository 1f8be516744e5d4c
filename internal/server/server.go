package server

import (
	"context"
	"net/http"

	"github.com/Minister-Isaac/Vtu-Backend/internal/account"
	"github.com/Minister-Isaac/Vtu-Backend/internal/auth"
	"github.com/Minister-Isaac/Vtu-Backend/internal/config"
	"github.com/Minister-Isaac/Vtu-Backend/internal/gateway"
	"github.com/Minister-Isaac/Vtu-Backend/internal/purchase"
	"github.com/Minister-Isaac/Vtu-Backend/internal/receipt"
	"github.com/Minister-Isaac/Vtu-Backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, receipts *receipt.Service) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	userRepo := user.NewRepository(db)
	accountRepo := account.NewRepository(db)
	gatewayClient := gateway.New(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayTimeout)

	userService := user.NewService(userRepo, accountRepo, receipts, cfg.JWTSecret)
	purchaseService := purchase.NewService(gatewayClient, accountRepo, userRepo, receipts)

	userHandler := user.NewHandler(userService, cfg.IsProduction())
	accountHandler := account.NewHandler(accountRepo)
	purchaseHandler := purchase.NewHandler(purchaseService)

	v1 := router.Group("/api/v1")

	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", userHandler.Register)
		authGroup.POST("/login", userHandler.Login)
		authGroup.POST("/logout", userHandler.Logout)
		authGroup.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)

	userGroup := v1.Group("/user")
	userGroup.Use(authMiddleware)
	{
		userGroup.GET("/me", userHandler.GetMe)
	}

	accountGroup := v1.Group("/account")
	accountGroup.Use(authMiddleware)
	{
		accountGroup.GET("", accountHandler.GetAccount)
		accountGroup.GET("/transactions", accountHandler.ListTransactions)
	}

	subscribe := v1.Group("/subscribe")
	subscribe.Use(authMiddleware)
	{
		subscribe.POST("/data", purchaseHandler.BuyData)
		subscribe.POST("/airtime", purchaseHandler.BuyAirtime)
		subscribe.POST("/electricity", purchaseHandler.PayElectricity)
		subscribe.POST("/cablesub", purchaseHandler.BuyCable)

		subscribe.GET("/data-history", purchaseHandler.DataHistory)
		subscribe.GET("/query-data/:transactionId", purchaseHandler.QueryData)
		subscribe.GET("/query-airtime/:transactionId", purchaseHandler.QueryAirtime)
		subscribe.GET("/query-electricity-bill/:transactionId", purchaseHandler.QueryElectricity)
		subscribe.GET("/query-cablesub/:transactionId", purchaseHandler.QueryCable)
		subscribe.GET("/validate-iuc/:smartCardNumber/:cableName", purchaseHandler.ValidateIUC)
		subscribe.GET("/validate-meter/:meterNumber/:discoName/:meterType", purchaseHandler.ValidateMeter)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		},
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
