package onboarding

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Wizard guides the user through the initial configuration of Maxy
type Wizard struct {
	scanner *bufio.Scanner
}

func NewWizard() *Wizard {
	return &Wizard{
		scanner: bufio.NewScanner(os.Stdin),
	}
}

// Run starts the interactive setup process
func (w *Wizard) Run() (*Config, error) {
	fmt.Println("\n🚀 Welcome to Maxy Setup!")
	fmt.Println("Let's configure your FAQ auto-reply bot.")
	fmt.Println(strings.Repeat("-", 40))

	cfg := &Config{
		DataDir: "data",
	}

	// 1. Storage
	fmt.Println("\n[1/3] Storage")
	fmt.Printf("Directory for faqs.json and config.json (default: %s): ", cfg.DataDir)
	if input := w.readLine(); input != "" {
		cfg.DataDir = input
	}
	if _, err := os.Stat(cfg.DataDir); os.IsNotExist(err) {
		fmt.Print("Directory does not exist. Create it? (Y/n): ")
		if w.confirm(true) {
			os.MkdirAll(cfg.DataDir, 0755)
			fmt.Println("✅ Created data directory.")
		}
	}

	// 2. Telegram
	fmt.Println("\n[2/3] Telegram")
	fmt.Print("Bot token (or leave empty if set in TELEGRAM_BOT_TOKEN): ")
	cfg.TelegramToken = w.readLine()
	fmt.Print("Owner user ID (this user manages FAQs): ")
	cfg.OwnerID = w.readLine()

	// 3. Model fallback
	fmt.Println("\n[3/3] Model Fallback")
	fmt.Println("When no FAQ matches, Maxy can ask a local Ollama model before")
	fmt.Println("falling back to a canned reply.")
	fmt.Print("Enable model fallback? (y/N): ")
	cfg.LLMFallback = w.confirm(false)
	if cfg.LLMFallback {
		fmt.Print("Model name (default: llama3.2): ")
		cfg.LLMModel = w.readLine()
		if cfg.LLMModel == "" {
			cfg.LLMModel = "llama3.2"
		}
		fmt.Print("Ollama URL (press Enter for default http://localhost:11434): ")
		cfg.LLMBaseURL = w.readLine()
	}

	// 4. Middleware configuration
	menu := NewMiddlewareMenu(w.scanner)
	mSettings, err := menu.Run()
	if err == nil {
		cfg.Middlewares = mSettings
	}

	w.summarize(cfg)

	return cfg, nil
}

func (w *Wizard) readLine() string {
	w.scanner.Scan()
	return strings.TrimSpace(w.scanner.Text())
}

func (w *Wizard) confirm(def bool) bool {
	input := strings.ToLower(w.readLine())
	if input == "" {
		return def
	}
	return input == "y" || input == "yes"
}

func (w *Wizard) summarize(cfg *Config) {
	fmt.Println("\n" + strings.Repeat("=", 40))
	fmt.Println("Setup Summary:")
	fmt.Printf("Data dir:       %s\n", cfg.DataDir)
	fmt.Printf("Telegram token: %s\n", maskOrUnset(cfg.TelegramToken))
	fmt.Printf("Owner ID:       %s\n", valueOrUnset(cfg.OwnerID))
	if cfg.LLMFallback {
		fmt.Printf("Model fallback: %s\n", cfg.LLMModel)
	} else {
		fmt.Println("Model fallback: disabled")
	}
	fmt.Println(strings.Repeat("=", 40))

	fmt.Println("\nTip: You can save these as environment variables:")
	fmt.Printf("export MAXY_DATA_DIR=%s\n", cfg.DataDir)
	if cfg.TelegramToken != "" {
		fmt.Println("export TELEGRAM_BOT_TOKEN=***")
	}
	if cfg.OwnerID != "" {
		fmt.Printf("export MAXY_OWNER_ID=%s\n", cfg.OwnerID)
	}
	fmt.Println("\n✅ Configuration complete! Restart Maxy to apply changes.")
}

func maskOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return "***"
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
