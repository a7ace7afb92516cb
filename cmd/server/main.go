package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "spareparts-be/docs"
	"spareparts-be/internal/audit"
	"spareparts-be/internal/config"
	"spareparts-be/internal/db"
	"spareparts-be/internal/delivery"
	"spareparts-be/internal/feedback"
	"spareparts-be/internal/logger"
	"spareparts-be/internal/notification"
	"spareparts-be/internal/order"
	"spareparts-be/internal/payment"
	"spareparts-be/internal/report"
	"spareparts-be/internal/sparepart"
	"spareparts-be/internal/transport"
	"spareparts-be/internal/user"
	"spareparts-be/internal/warranty"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(srv *http.Server) error { return srv.ListenAndServe() }
)

// @title       Spare Parts API
// @version     1.0
// @description Vehicle spare parts store: catalog, orders, deliveries, warranties and feedback.
// @BasePath    /api
// @securityDefinitions.apikey Bearer
// @in   header
// @name Authorization
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database := initDBFunc(cfg)
	defer database.Close()

	handler, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("http server listening", zap.String("addr", srv.Addr))
		errCh <- startServerFunc(srv)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newServer wires repositories, services and handlers into the HTTP stack.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	tx := db.NewTransactor(database)

	auditRepo, err := audit.NewRepositoryFromConfig(ctx, cfg, database)
	if err != nil {
		return nil, fmt.Errorf("audit backend: %w", err)
	}
	templates, err := notification.LoadTemplates(cfg.NotificationTemplates)
	if err != nil {
		return nil, fmt.Errorf("notification templates: %w", err)
	}
	sender := notification.LogSender{}
	orderEvents := notification.NewOrderDispatcher(templates, sender, auditRepo)
	warrantyEvents := notification.NewWarrantyDispatcher(templates, sender)

	partsRepo := sparepart.NewRepository(database)
	partSvc := sparepart.NewService(partsRepo)

	userSvc := user.NewService(user.NewRepository(database), user.NewFactory(), tx)

	deliveryRepo := delivery.NewRepository(database)
	deliveryMethods := delivery.DefaultSelector()
	scheduler := delivery.NewScheduler(deliveryRepo, deliveryMethods)

	warrantySvc := warranty.NewService(warranty.NewRepository(database), partsRepo, warrantyEvents, tx)

	paymentMethods := payment.DefaultSelector()
	orderSvc := order.NewService(order.Dependencies{
		Repo:       order.NewRepository(database),
		Parts:      partsRepo,
		Payments:   paymentMethods,
		Deliveries: scheduler,
		Warranties: warrantySvc,
		Notifier:   orderEvents,
		Tx:         tx,
	})

	deliverySvc := delivery.NewService(deliveryRepo, tx, scheduler, orderSvc, userSvc)
	claimSvc := warranty.NewClaimService(warranty.NewClaimRepository(database), orderSvc, tx)
	feedbackSvc := feedback.NewService(feedback.NewRepository(database))
	reports := report.NewFactory(report.NewRepository(database))

	engine := transport.NewRouter(transport.Handlers{
		Auth:       transport.NewAuthHandler(userSvc),
		Users:      transport.NewUserHandler(userSvc),
		Parts:      transport.NewSparePartHandler(partSvc),
		Orders:     transport.NewOrderHandler(orderSvc),
		Deliveries: transport.NewDeliveryHandler(deliverySvc),
		Warranties: transport.NewWarrantyHandler(warrantySvc),
		Claims:     transport.NewClaimHandler(claimSvc),
		Feedback:   transport.NewFeedbackHandler(feedbackSvc),
		System:     transport.NewSystemHandler(reports, paymentMethods, deliveryMethods, orderEvents, warrantyEvents),
	}, cfg.CORSOrigins)

	return transport.Handler(ctx, engine, userSvc), nil
}
