// Package server boots the application: configuration, Mongo, Redis,
// dependency wiring, and the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/sahyog/app/controllers"
	"github.com/shashiranjanraj/sahyog/app/models"
	"github.com/shashiranjanraj/sahyog/app/repositories"
	"github.com/shashiranjanraj/sahyog/app/routes"
	"github.com/shashiranjanraj/sahyog/app/services"
	"github.com/shashiranjanraj/sahyog/config"
	"github.com/shashiranjanraj/sahyog/internal/kernel"
	"github.com/shashiranjanraj/sahyog/pkg/cache"
	"github.com/shashiranjanraj/sahyog/pkg/database"
	"github.com/shashiranjanraj/sahyog/pkg/event"
	"github.com/shashiranjanraj/sahyog/pkg/logger"
)

// App holds the wired application and the backing connections it owns.
type App struct {
	Kernel    *kernel.HTTPKernel
	Mongo     *mongo.Client
	Blacklist *cache.Cache
	Bus       *event.Bus

	logHandler *logger.MongoHandler
}

// Bootstrap loads config, connects the backing stores, and wires every
// layer. The caller owns the returned App and must Close it.
func Bootstrap(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}

	client, err := database.Connect(ctx, config.MongoURI())
	if err != nil {
		return nil, fmt.Errorf("mongo: %w", err)
	}
	db := client.Database(config.MongoDB())

	blacklist, err := cache.New(ctx, config.RedisAddr(), config.RedisPassword())
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("redis: %w", err)
	}

	app := &App{Mongo: client, Blacklist: blacklist}

	// Fan application logs out to a Mongo collection alongside stdout.
	// Disabled when MONGO_LOG_COLLECTION is empty.
	if col := config.MongoLogCollection(); col != "" {
		mh := logger.NewMongoHandler(db.Collection(col))
		logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), mh))
		app.logHandler = mh
	}

	app.Bus = event.NewBus(4)
	registerListeners(app.Bus)

	deps := wire(db, blacklist, app.Bus)

	app.Kernel = kernel.NewHTTPKernel()
	routes.Register(app.Kernel.Router, deps, blacklist)

	return app, nil
}

func wire(db *mongo.Database, blacklist *cache.Cache, bus *event.Bus) routes.Controllers {
	users := repositories.NewUserRepository(db)
	fundraisers := repositories.NewFundraiserRepository(db)
	donations := repositories.NewDonationRepository(db)

	authSvc := services.NewAuthService(users)
	googleSvc := services.NewGoogleService(users)
	fundraiserSvc := services.NewFundraiserService(fundraisers, donations, bus)
	donationSvc := services.NewDonationService(donations, fundraisers, bus,
		config.ApprovalMode() == "overwrite")

	return routes.Controllers{
		Auth:       controllers.NewAuthController(authSvc, googleSvc, blacklist),
		Fundraiser: controllers.NewFundraiserController(fundraiserSvc),
		Donation:   controllers.NewDonationController(donationSvc),
	}
}

// registerListeners hooks the activity log onto the domain events. Listeners
// run on the bus workers, off the request path.
func registerListeners(bus *event.Bus) {
	bus.Listen(services.EventFundraiserCreated, func(payload any) {
		if f, ok := payload.(models.Fundraiser); ok {
			logger.Info("fundraiser created",
				"fundraiser_id", f.ID.Hex(), "category", string(f.Category), "owner", f.CreatedBy.Hex())
		}
	})
	bus.Listen(services.EventDonationSubmitted, func(payload any) {
		if d, ok := payload.(models.Donation); ok {
			logger.Info("donation submitted",
				"donation_id", d.ID.Hex(), "fundraiser_id", d.FundraiserID.Hex(), "amount", d.Amount)
		}
	})
	bus.Listen(services.EventDonationDecided, func(payload any) {
		if e, ok := payload.(services.DonationDecided); ok {
			logger.Info("donation decided",
				"donation_id", e.Donation.ID.Hex(), "status", string(e.Donation.Status),
				"fundraiser_id", e.Fundraiser.ID.Hex(), "amount", e.Donation.Amount)
		}
	})
}

// Close releases the backing connections, flushing buffered logs first.
func (a *App) Close(ctx context.Context) {
	if a.Bus != nil {
		a.Bus.Close()
	}
	if a.logHandler != nil {
		a.logHandler.Close()
	}
	if a.Blacklist != nil {
		_ = a.Blacklist.Close()
	}
	if a.Mongo != nil {
		_ = a.Mongo.Disconnect(ctx)
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 10 seconds.
func Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := Bootstrap(ctx)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           app.Kernel.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		app.Close(context.Background())
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
	app.Close(shutdownCtx)
	return nil
}
