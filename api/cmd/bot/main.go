package main

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"log"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver

	"waste-scan/api/internal/config"
	"waste-scan/api/internal/store"
	"waste-scan/api/internal/telegram"
	"waste-scan/api/internal/vision"
	"waste-scan/api/internal/vision/gemini"
	"waste-scan/api/internal/vision/openai"
	"waste-scan/api/internal/vision/stub"
)

func main() {
	cfg := config.Load()
	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "8080"
	}

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

	bot, err := tgbotapi.NewBotAPI(cfg.MustTelegramToken())
	if err != nil {
		log.Fatal(err)
	}
	bot.Debug = false

	engines := telegram.Engines{
		Stub:   stub.New(),
		OpenAI: openai.New(cfg.OpenAIAPIKey, cfg.OpenAIModel),
		Gemini: gemini.New(cfg.GeminiAPIKey, cfg.GeminiModel),
	}
	def := engines.Stub
	switch cfg.VisionProvider {
	case "openai", "gpt":
		def = engines.OpenAI
	case "gemini":
		def = engines.Gemini
	}
	log.Printf("VISION_PROVIDER=%s model=%s", def.Name(), def.GetModel())

	r := &telegram.Router{
		Bot:            bot,
		EngManager:     vision.NewManager(def),
		Engines:        engines,
		Dropoffs:       dropoffs,
		JurisdictionID: cfg.JurisdictionID,
	}

	http.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	addr := "0.0.0.0:" + cfg.Port
	if cfg.WebhookURL != "" {
		startWebhookMode(addr, bot, r, cfg.WebhookURL)
	} else {
		startPollingMode(addr, bot, r)
	}
}

func startWebhookMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router, baseURL string) {
	path := "/webhook/" + shortHash(bot.Token)
	public := strings.TrimRight(baseURL, "/") + path

	wh, err := tgbotapi.NewWebhook(public)
	if err != nil {
		log.Fatal(err)
	}
	wh.DropPendingUpdates = true
	if _, err := bot.Request(wh); err != nil {
		log.Fatal(err)
	}

	// ListenForWebhook registers on the DefaultServeMux.
	updates := bot.ListenForWebhook(path)
	go func() {
		for upd := range updates {
			r.HandleUpdate(upd)
		}
		log.Printf("webhook updates channel closed")
	}()

	log.Printf("webhook listening on %s%s", addr, path)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}

func startPollingMode(addr string, bot *tgbotapi.BotAPI, r *telegram.Router) {
	go func() {
		log.Printf("health server listening on %s/healthz", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Fatal(err)
		}
	}()

	runPolling(context.Background(), bot, r.HandleUpdate)
}

var reRetryAfter = regexp.MustCompile(`(?i)retry after\s+(\d+)`)

func retryDelayFromError(err error) time.Duration {
	if err == nil {
		return 0
	}
	s := strings.ToLower(err.Error())
	if strings.Contains(s, "too many requests") {
		if m := reRetryAfter.FindStringSubmatch(s); len(m) == 2 {
			if n, _ := strconv.Atoi(m[1]); n > 0 {
				return time.Duration(n) * time.Second
			}
		}
		return 3 * time.Second
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return 2 * time.Second
	}
	return 1 * time.Second
}

func runPolling(ctx context.Context, bot *tgbotapi.BotAPI, handle func(tgbotapi.Update)) {
	offset := 0
	baseDelay := 1 * time.Second
	maxDelay := 15 * time.Second

	for {
		select {
		case <-ctx.Done():
			log.Printf("polling: context cancelled")
			return
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30

		updates, err := bot.GetUpdates(u)
		if err != nil {
			d := retryDelayFromError(err)
			if d < baseDelay {
				d = baseDelay
			}
			if d > maxDelay {
				d = maxDelay
			}
			log.Printf("polling error: %v; retry in %v", err, d)
			time.Sleep(d)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			handle(upd)
		}

		if len(updates) == 0 {
			time.Sleep(200 * time.Millisecond)
		}
	}
}

func shortHash(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])[:16]
}
