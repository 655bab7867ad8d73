// main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"lanmomo-web/config"
	"lanmomo-web/controllers"
	"lanmomo-web/logger"
	"lanmomo-web/middleware"
	"lanmomo-web/services"
	"lanmomo-web/websocket"
)

const (
	sessionName     = "lanmomo"
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	if cfg.LogDir != "" {
		if err := logger.InitLogger(cfg.LogDir); err != nil {
			logger.Error.Printf("[main] Could not open log file in %s: %v", cfg.LogDir, err)
		}
	}
	logger.SetLogLevel(cfg.Env)
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	registry := services.NewVisitorRegistry(func() services.LanAPI {
		return services.NewHTTPClient(cfg.APIBaseURL, cfg.TracingEnabled)
	})

	var metrics websocket.Metrics = websocket.NoopMetrics{}
	if cfg.MetricsEnabled {
		cw, err := websocket.NewCloudWatchMetrics(cfg.AWSRegion)
		if err != nil {
			logger.Error.Printf("[main] CloudWatch metrics disabled: %v", err)
		} else {
			metrics = cw
		}
	}
	hub := websocket.NewHub(metrics)
	wsHandler := websocket.NewHandler(hub, viewConfig(cfg), metrics, cfg.AllowedOrigins)

	router := setupRouter(cfg, registry, wsHandler)

	var handler http.Handler = router
	if cfg.TracingEnabled {
		handler = xray.Handler(xray.NewFixedSegmentNamer("lanmomo-web"), router)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := registry.CleanupInactiveVisitors(ctx, sweepInterval, cfg.VisitorIdleTimeout)
	defer sweeper.Cancel()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	go func() {
		logger.Info.Printf("[main] Listening on :%s (upstream %s)", cfg.Port, cfg.APIBaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error.Fatalf("[main] Failed to run server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info.Println("[main] Shutting down")
	hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error.Printf("[main] Graceful shutdown failed: %v", err)
	}
}

func viewConfig(cfg config.Config) websocket.ViewConfig {
	return websocket.ViewConfig{
		SeatRefreshInterval:   cfg.SeatRefreshInterval,
		ServerRefreshInterval: cfg.ServerRefreshInterval,
		TimerTickInterval:     cfg.TimerTickInterval,
		PCCapacity:            cfg.PCCapacity,
		ConsoleCapacity:       cfg.ConsoleCapacity,
		DiscardStale:          cfg.SeatMapDiscardStale,
	}
}

// setupRouter builds the browser-facing routes.
func setupRouter(cfg config.Config, registry *services.VisitorRegistry, wsHandler *websocket.Handler) *gin.Engine {
	router := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions(sessionName, store))

	router.GET("/health", controllers.Health)

	api := router.Group("/", middleware.LoadVisitor(registry))

	auth := controllers.NewAuthController()
	api.GET("/session", auth.Session)
	api.POST("/login", auth.Login)
	api.GET("/logout", auth.Logout)
	api.GET("/verify/:token", auth.Verify)

	tickets := controllers.NewTicketsController(cfg.PCCapacity, cfg.ConsoleCapacity)
	api.GET("/tickets/summary", tickets.Summary)
	api.POST("/tickets/buy", tickets.Buy)

	seatMap := controllers.NewMapController(cfg.PCCapacity)
	api.GET("/map/seats", seatMap.Seats)
	api.POST("/map/select", seatMap.Select)
	api.POST("/map/buy", seatMap.Buy)

	signup := controllers.NewSignupController()
	api.POST("/signup", signup.Signup)
	api.POST("/signup/has/:field", signup.Has)

	qr := controllers.NewQRController()
	api.GET("/qr/:token", qr.Lookup)

	servers := controllers.NewServersController()
	api.GET("/servers", servers.List)

	teams := controllers.NewTeamsController()
	api.GET("/teams", teams.List)

	api.GET("/ws", controllers.ViewSocket(wsHandler))

	protected := api.Group("/", middleware.AuthRequired)
	{
		pay := controllers.NewPayController()
		protected.GET("/pay/summary", pay.Summary)
		protected.PUT("/pay", pay.Pay)
		protected.PUT("/pay/execute", pay.Execute)

		profile := controllers.NewProfileController(cfg.PublicURL, nil)
		protected.GET("/profile", profile.Show)
		protected.PUT("/profile", profile.Update)
		protected.POST("/profile/has/:field", profile.Has)
		protected.GET("/profile/qrcode.png", profile.QRCode)

		protected.POST("/teams", teams.Create)
		protected.DELETE("/teams/:id", teams.Delete)
	}

	return router
}
