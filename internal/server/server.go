package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/sambatan/internal/audit"
	auditdomain "github.com/smallbiznis/sambatan/internal/audit/domain"
	"github.com/smallbiznis/sambatan/internal/campaign"
	campaigndomain "github.com/smallbiznis/sambatan/internal/campaign/domain"
	"github.com/smallbiznis/sambatan/internal/catalog"
	catalogdomain "github.com/smallbiznis/sambatan/internal/catalog/domain"
	"github.com/smallbiznis/sambatan/internal/config"
	"github.com/smallbiznis/sambatan/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/sambatan/internal/dashboard/domain"
	"github.com/smallbiznis/sambatan/internal/lifecycle"
	"github.com/smallbiznis/sambatan/internal/participant"
	participantdomain "github.com/smallbiznis/sambatan/internal/participant/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	catalog.Module,
	campaign.Module,
	participant.Module,
	audit.Module,
	dashboard.Module,
	lifecycle.Module,
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
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin() *gin.Engine {
	return NewEngine()
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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
	engine         *gin.Engine
	cfg            config.Config
	catalogSvc     catalogdomain.Service
	campaignSvc    campaigndomain.Service
	participantSvc participantdomain.Service
	auditSvc       auditdomain.Service
	dashboardSvc   dashboarddomain.Service
	sweeper        *lifecycle.Sweeper
}

type ServerParams struct {
	fx.In

	Gin            *gin.Engine
	Cfg            config.Config
	CatalogSvc     catalogdomain.Service
	CampaignSvc    campaigndomain.Service
	ParticipantSvc participantdomain.Service
	AuditSvc       auditdomain.Service
	DashboardSvc   dashboarddomain.Service
	Sweeper        *lifecycle.Sweeper
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:         p.Gin,
		cfg:            p.Cfg,
		catalogSvc:     p.CatalogSvc,
		campaignSvc:    p.CampaignSvc,
		participantSvc: p.ParticipantSvc,
		auditSvc:       p.AuditSvc,
		dashboardSvc:   p.DashboardSvc,
		sweeper:        p.Sweeper,
	}

	svc.registerAPIRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Products --------
	api.POST("/products", s.CreateProduct)
	api.GET("/products/:id", s.GetProductByID)

	// -------- Campaigns --------
	api.GET("/campaigns", s.ListCampaigns)
	api.POST("/campaigns", s.CreateCampaign)
	api.GET("/campaigns/:id", s.GetCampaignByID)
	api.POST("/campaigns/:id/join", s.JoinCampaign)
	api.GET("/campaigns/:id/participants", s.ListCampaignParticipants)
	api.GET("/campaigns/:id/audit", s.ListCampaignAuditLog)

	// -------- Audit --------
	api.GET("/audit", s.ListAuditLogs)

	// -------- Participants --------
	api.GET("/participants/:id", s.GetParticipantByID)
	api.POST("/participants/:id/cancel", s.CancelParticipation)
	api.POST("/participants/:id/confirm", s.ConfirmParticipation)

	// -------- Dashboard --------
	api.GET("/dashboard/summary", s.DashboardSummary)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin")

	admin.POST("/lifecycle/run", s.RunLifecycleSweep)
}
