package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/racketlab/swing-analytics/docs" // Swagger docs
	"github.com/racketlab/swing-analytics/internal/classify"
	"github.com/racketlab/swing-analytics/internal/config"
	"github.com/racketlab/swing-analytics/internal/importer"
	"github.com/racketlab/swing-analytics/internal/session"
	"github.com/racketlab/swing-analytics/internal/transport"
	"github.com/racketlab/swing-analytics/internal/websocket"
)

// @title Swing Analytics API
// @version 1.0
// @description API для захвата и анализа ударов ракеткой с сенсорного устройства
// @description
// @description ## Описание
// @description Сервис принимает кадры акселерометра и гироскопа (WebSocket или BLE),
// @description накапливает их в скользящем буфере, классифицирует окна ударов через
// @description внешний сервис и ведет статистику игрока: уровень, тренды, челленджи.
// @description
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@racketlab.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	log.Printf("[INFO] Starting swing analytics server...")

	cfg := config.Load()
	log.Printf("[INFO] Configuration loaded: http_port=%s buffer_max_samples=%d window_size=%d",
		cfg.HTTPPort, cfg.BufferMaxSamples, cfg.WindowSize)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("[FATAL] Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
	}
	log.Printf("[INFO] Connected to Redis at %s", cfg.RedisAddr)
	defer redisClient.Close()

	cache := session.NewRedisStore(redisClient)

	repository, err := session.NewPostgresRepositoryFromDSN(cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to PostgreSQL: %v", err)
	}
	log.Printf("[INFO] Connected to PostgreSQL")
	defer repository.Close()

	classifier := classify.NewClient(cfg.ClassifierURL, cfg.ClassifierTimeout)
	log.Printf("[INFO] Using classifier at %s", cfg.ClassifierURL)

	manager := session.NewManager(cache, repository, classifier,
		cfg.WindowSize, cfg.BufferMaxSamples, cfg.LeaderboardSize)

	hub := websocket.NewHub()
	go hub.Run()
	manager.SetBroadcaster(hub)

	ingest := transport.NewWSIngest(manager)
	csvImporter := importer.NewImporter(manager, cfg.ImportWindowSize)

	router := mux.NewRouter()

	sessionHandler := session.NewHTTPHandler(manager)
	sessionHandler.RegisterRoutes(router)

	importHandler := importer.NewHTTPHandler(csvImporter)
	importHandler.RegisterRoutes(router)

	router.HandleFunc("/ws/ingest", ingest.HandleIngest)
	router.HandleFunc("/ws", hub.HandleWebSocket)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "ok", "time": "%s"}`, time.Now().Format(time.RFC3339))
	}).Methods(http.MethodGet)

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      enableCORS(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Printf("[INFO] HTTP server listening on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	bleCtx, bleCancel := context.WithCancel(ctx)
	defer bleCancel()
	if cfg.BLEEnabled {
		go runBLE(bleCtx, cfg, manager)
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrChan:
		log.Printf("[ERROR] Server error: %v", err)

	case sig := <-shutdownChan:
		log.Printf("[INFO] Received signal %v, starting graceful shutdown...", sig)

		bleCancel()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] Graceful shutdown failed: %v", err)
		}

		log.Printf("[INFO] Graceful shutdown completed")
	}

	log.Printf("[INFO] Server stopped")
}

// runBLE подключается к сенсорному устройству и гонит кадры в сессию
// практики. Падение соединения приводит к переподключению с паузой.
func runBLE(ctx context.Context, cfg *config.Config, manager *session.Manager) {
	central := transport.NewBLECentral(cfg.BLEDeviceName)

	for {
		sess, err := manager.StartSession(ctx, &session.CreateSessionRequest{
			PlayerID:       cfg.BLEPlayerID,
			SamplingRateHz: cfg.SamplingRateHz,
		})
		if err != nil {
			log.Printf("[ERROR] [BLE] Failed to start practice session: %v", err)
			return
		}
		log.Printf("[INFO] [BLE] Practice session %s started for player %s", sess.ID, cfg.BLEPlayerID)

		if err := central.Pump(ctx, manager, sess.ID); err != nil {
			log.Printf("[WARN] [BLE] Stream ended: %v", err)
		}

		if _, err := manager.StopSession(ctx, sess.ID); err != nil {
			log.Printf("[WARN] [BLE] Failed to stop session %s: %v", sess.ID, err)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			return
		}

		next.ServeHTTP(w, r)
	})
}
