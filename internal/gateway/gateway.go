// Package gateway owns startup wiring: env, onboarding config, the JSON
// stores, and the middleware chain the transports run messages through.
package gateway

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"maxy/internal/bot"
	"maxy/internal/config"
	"maxy/internal/faq"
	"maxy/internal/middleware"
	"maxy/internal/onboarding"
	"maxy/internal/storage"
	"maxy/middlewares/channelgate"
	"maxy/middlewares/faqmatch"

	_ "maxy/middlewares/autoload" // Auto-load all middlewares

	"github.com/joho/godotenv"
)

type Gateway struct {
	ConfigPath string

	once    sync.Once
	openErr error
	faqs    *faq.Store
	cfg     *config.Store
	mwLog   io.Writer
}

func New(configPath string) *Gateway {
	return &Gateway{ConfigPath: configPath}
}

// open loads env and onboarding config, then opens the stores. The stores
// are opened exactly once: one process, one owner of the JSON files, no
// matter how many transports run.
func (g *Gateway) open() error {
	g.once.Do(func() {
		// Load environment variables from .env if present
		_ = godotenv.Load()

		dataDir := "data"

		// Load from onboarding config file if available
		if g.ConfigPath != "" {
			if cfg, err := onboarding.LoadFromFile(g.ConfigPath); err == nil {
				if cfg.DataDir != "" {
					dataDir = cfg.DataDir
				}
				setIfUnset("TELEGRAM_BOT_TOKEN", cfg.TelegramToken)
				setIfUnset("MAXY_OWNER_ID", cfg.OwnerID)
				setIfUnset("MAXY_LLM_MODEL", cfg.LLMModel)
				setIfUnset("MAXY_OLLAMA_URL", cfg.LLMBaseURL)
				if cfg.LLMFallback {
					setIfUnset("MAXY_LLM_FALLBACK", "1")
				}
				applyMiddlewareSettings(cfg.Middlewares)
			}
		}

		// Environment variables override the config file
		if d := os.Getenv("MAXY_DATA_DIR"); d != "" {
			dataDir = d
		}

		faqs, err := faq.Open(storage.NewFile(filepath.Join(dataDir, "faqs.json")))
		if err != nil {
			g.openErr = fmt.Errorf("open faq store: %w", err)
			return
		}
		cfg, err := config.Open(storage.NewFile(filepath.Join(dataDir, "config.json")))
		if err != nil {
			g.openErr = fmt.Errorf("open config store: %w", err)
			return
		}
		g.faqs = faqs
		g.cfg = cfg

		// Middleware debug log (JSONL), always on by default.
		logPath := filepath.Join("bin", "middleware.debug.jsonl")
		_ = os.MkdirAll(filepath.Dir(logPath), 0o755)
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to open middleware log file (%s): %v\n", logPath, err)
			return
		}
		g.mwLog = logFile
	})
	return g.openErr
}

// InitService builds a service for one transport. The stores are shared
// across transports; the chain is built per call so each transport carries
// its own identity.
func (g *Gateway) InitService(ident bot.Identity) (*bot.Service, error) {
	if err := g.open(); err != nil {
		return nil, err
	}
	chain := middleware.BuildChain(g.mwLog,
		channelgate.New(g.cfg),
		faqmatch.New(g.faqs, g.cfg),
	)
	return bot.NewService(g.faqs, g.cfg, ident, chain), nil
}

func setIfUnset(key, value string) {
	if value != "" && os.Getenv(key) == "" {
		os.Setenv(key, value)
	}
}

func applyMiddlewareSettings(settings []onboarding.MiddlewareSetting) {
	var disabled []string
	for _, m := range settings {
		if !m.Enabled {
			disabled = append(disabled, m.ID)
		}
		for k, v := range m.EnvVars {
			if v != "" {
				setIfUnset(k, v)
			}
		}
	}
	if len(disabled) > 0 {
		setIfUnset("MAXY_DISABLED_MIDDLEWARES", strings.Join(disabled, ","))
	}
}
