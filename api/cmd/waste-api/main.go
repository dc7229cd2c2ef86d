package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"waste-scan/api/internal/config"
	"waste-scan/api/internal/handle"
	"waste-scan/api/internal/httpserver"
	"waste-scan/api/internal/store"
	"waste-scan/api/internal/vision"
	"waste-scan/api/internal/vision/gemini"
	"waste-scan/api/internal/vision/openai"
	"waste-scan/api/internal/vision/stub"
)

func main() {
	cfg := config.Load()

	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		cfg.Port = p
	} else if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8000"
	}

	engine := pickEngine(cfg)
	log.Printf("VISION_PROVIDER=%s model=%s", engine.Name(), engine.GetModel())

	// Optional drop-off directory.
	var dropoffs *store.DropoffRepo
	if dsn := config.ResolveDSN(); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			log.Fatalf("sql.Open: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(1 * time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := db.PingContext(ctx); err != nil {
			cancel()
			log.Fatalf("db.Ping: %v", err)
		}
		cancel()
		log.Printf("dropoff directory connected")
		dropoffs = store.NewDropoffRepo(db)
	}

	h := handle.New(engine, dropoffs, cfg.JurisdictionID)

	healthz := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if dropoffs != nil {
			if err := dropoffs.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("db: not ok\n" + err.Error()))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}

	mux := httpserver.NewMux(h, healthz)
	log.Fatal(httpserver.Start(":"+cfg.Port, mux))
}

func pickEngine(cfg *config.Config) vision.Engine {
	switch cfg.VisionProvider {
	case "openai", "gpt":
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	case "gemini":
		return gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	case "", "stub":
		return stub.New()
	default:
		log.Printf("unknown VISION_PROVIDER %q, using stub", cfg.VisionProvider)
		return stub.New()
	}
}
