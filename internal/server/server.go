package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stayware/stayflow/internal/config"
	paymentdomain "github.com/stayware/stayflow/internal/payment/domain"
	"github.com/stayware/stayflow/internal/payment/webhook"
	"github.com/stayware/stayflow/internal/ratelimit"
	roomdomain "github.com/stayware/stayflow/internal/room/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	log         *zap.Logger
	paymentSvc  paymentdomain.Service
	webhookSvc  webhook.Service
	roomSvc     roomdomain.Service
	rateLimiter ratelimit.Limiter
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Log         *zap.Logger
	PaymentSvc  paymentdomain.Service
	WebhookSvc  webhook.Service
	RoomSvc     roomdomain.Service
	RateLimiter ratelimit.Limiter
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		log:         p.Log.Named("http"),
		paymentSvc:  p.PaymentSvc,
		webhookSvc:  p.WebhookSvc,
		roomSvc:     p.RoomSvc,
		rateLimiter: p.RateLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Payments --------
	payments := api.Group("/payments", s.PaymentRateLimit())
	payments.POST("/checkout", s.Charge)
	payments.POST("/create-checkout-session", s.CreateCheckoutSession)

	// -------- Webhooks --------
	api.POST("/webhook/stripe", s.HandleStripeWebhook)

	// -------- Rooms --------
	api.GET("/rooms/availability", s.CheckAvailability)
	api.GET("/rooms/available", s.ListAvailableRooms)
	api.DELETE("/rooms/:id", s.DeleteRoom)
}
