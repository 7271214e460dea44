package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/existflow/ironfocus/internal/db"
	"github.com/existflow/ironfocus/internal/logger"
	"github.com/existflow/ironfocus/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://localhost:5432/ironfocus?sslmode=disable"
	}

	logCfg := logger.DefaultConfig()
	logCfg.FilePath = os.Getenv("IRONFOCUS_LOG_FILE")
	logCfg.Console = true
	if lvl := os.Getenv("IRONFOCUS_LOG_LEVEL"); lvl != "" {
		logCfg.Level = logger.ParseLevel(lvl)
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	st, err := db.OpenURL(dbURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	keyHash := os.Getenv("IRONFOCUS_API_KEY_HASH")
	if keyHash == "" {
		logger.Warn("IRONFOCUS_API_KEY_HASH not set, API is unauthenticated")
	}

	srv := server.New(st, server.Config{APIKeyHash: keyHash})

	go func() {
		logger.Info("IronFocus server starting",
			logger.F("port", port),
			logger.F("dialect", st.Dialect()))
		if err := srv.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http": func(ctx context.Context) error {
				logger.Info("Graceful shutdown initiated")
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				return st.Close()
			},
		},
	)

	exitCode := <-wait
	logger.Info("Server exited", logger.F("code", exitCode))
	_ = logger.Close()
	os.Exit(exitCode)
}
