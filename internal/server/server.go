package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cablepro/cablepro/internal/clock"
	"github.com/cablepro/cablepro/internal/config"
	"github.com/cablepro/cablepro/internal/customer"
	customerdomain "github.com/cablepro/cablepro/internal/customer/domain"
	obslogger "github.com/cablepro/cablepro/internal/observability/logger"
	obsmetrics "github.com/cablepro/cablepro/internal/observability/metrics"
	"github.com/cablepro/cablepro/internal/payment"
	paymentdomain "github.com/cablepro/cablepro/internal/payment/domain"
	"github.com/cablepro/cablepro/internal/providers/pdf"
	"github.com/cablepro/cablepro/internal/reporting"
	reportingdomain "github.com/cablepro/cablepro/internal/reporting/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	customer.Module,
	payment.Module,
	reporting.Module,
	pdf.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           cfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obsmetrics.GinMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(cfg config.Config, metrics *obsmetrics.Metrics) *gin.Engine {
	return NewEngine(cfg, metrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
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
	engine       *gin.Engine
	cfg          config.Config
	db           *gorm.DB
	genID        *snowflake.Node
	clock        clock.Clock
	customerSvc  customerdomain.Service
	paymentSvc   paymentdomain.Service
	reportingSvc reportingdomain.Service
	pdfProvider  pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	DB           *gorm.DB
	GenID        *snowflake.Node
	Clock        clock.Clock
	CustomerSvc  customerdomain.Service
	PaymentSvc   paymentdomain.Service
	ReportingSvc reportingdomain.Service
	PDFProvider  pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		db:           p.DB,
		genID:        p.GenID,
		clock:        p.Clock,
		customerSvc:  p.CustomerSvc,
		paymentSvc:   p.PaymentSvc,
		reportingSvc: p.ReportingSvc,
		pdfProvider:  p.PDFProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Customers --------
	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.GET("/customers/export", s.ExportCustomersCSV)
	api.POST("/customers/import", s.ImportCustomersCSV)
	api.GET("/customers/:id", s.GetCustomerByID)
	api.PATCH("/customers/:id", s.UpdateCustomer)
	api.POST("/customers/:id/status", s.SetCustomerStatus)
	api.DELETE("/customers/:id", s.DeleteCustomer)
	api.GET("/customers/:id/coverage", s.GetCustomerCoverage)
	api.GET("/customers/:id/payments", s.ListCustomerPayments)

	// -------- Payments --------
	api.GET("/payments", s.ListPayments)
	api.POST("/payments", s.CreatePayment)
	api.POST("/payments/preview", s.PreviewPayment)
	api.GET("/payments/export", s.ExportPaymentsCSV)
	api.GET("/payments/:id", s.GetPaymentByID)
	api.POST("/payments/:id/status", s.UpdatePaymentStatus)

	// -------- Dashboard & Reports --------
	api.GET("/dashboard", s.GetDashboard)
	api.GET("/reports/collections", s.GetCollectionsReport)
	api.GET("/reports/collections/pdf", s.GetCollectionsReportPDF)
}
