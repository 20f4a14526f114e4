// README: Entry point; loads config, wires providers and services, starts the HTTP server.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cabfare/internal/ai"
	"cabfare/internal/config"
	"cabfare/internal/geo"
	httptransport "cabfare/internal/http"
	"cabfare/internal/infra"
	"cabfare/internal/modules/booking"
	"cabfare/internal/modules/estimate"
	"cabfare/internal/modules/fare"
	"cabfare/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("postgres init", zap.Error(err))
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	geoTimeout := time.Duration(cfg.Geo.TimeoutSeconds) * time.Second
	var geocoder geo.Geocoder
	var router geo.Router
	var suggester geo.Suggester
	switch cfg.Geo.Provider {
	case "google":
		google, err := geo.NewGoogleService(cfg.Geo.GoogleAPIKey)
		if err != nil {
			logger.Fatal("google maps init", zap.Error(err))
		}
		geocoder, router, suggester = google, google, google
	default:
		osm := geo.NewOSMService(cfg.Geo.NominatimURL, cfg.Geo.OSRMURL, &http.Client{Timeout: geoTimeout})
		geocoder, router, suggester = osm, osm, osm
	}
	cacheTTL := time.Duration(cfg.Geo.CacheTTLMinutes) * time.Minute
	geocoder = geo.NewCachedGeocoder(geocoder, redisClient, cacheTTL, logger)

	fareStore := fare.NewStore(dbPool)
	catalog, err := fareStore.LoadCatalog(ctx)
	if err != nil {
		logger.Warn("vehicle catalog load failed, using defaults", zap.Error(err))
		catalog = fare.DefaultCatalog()
	}
	fareSvc := fare.NewService(catalog)
	estimateSvc := estimate.NewService(geocoder, router, fareSvc, logger)

	var sink booking.Sink = notify.NopSink{}
	if cfg.Sink.URL != "" {
		sink = notify.NewHTTPSink(cfg.Sink.URL, 10*time.Second, logger)
	} else {
		logger.Warn("no sink URL configured, bookings will not be forwarded")
	}

	bookingStore := booking.NewStore(dbPool)
	upi := booking.UPILink{PayeeID: cfg.Booking.UPIPayeeID, PayeeName: cfg.Booking.UPIPayeeName}
	bookingSvc := booking.NewService(bookingStore, sink, upi, cfg.Booking.RefPrefix, logger)

	var assistant ai.IntentParser
	if cfg.AI.GeminiKey != "" {
		parser, err := ai.NewGeminiParser(ctx, cfg.AI.GeminiKey)
		if err != nil {
			logger.Fatal("gemini init", zap.Error(err))
		}
		defer parser.Close()
		assistant = parser
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Estimates: estimateSvc,
		Bookings:  bookingSvc,
		Catalog:   catalog,
		Suggester: suggester,
		Assistant: assistant,
		Log:       logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server", zap.Error(err))
	}
}
