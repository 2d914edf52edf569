package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr string

	GitHubBaseURL string
	GitHubToken   string

	LLMBaseURL string
	LLMModel   string

	FrontendDir string
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Addr: os.Getenv("PORT"),

		GitHubBaseURL: os.Getenv("GITHUB_API_BASE"),
		GitHubToken:   os.Getenv("GITHUB_TOKEN"),

		LLMBaseURL: os.Getenv("LLM_BASE_URL"),
		LLMModel:   os.Getenv("LLM_MODEL"),

		FrontendDir: os.Getenv("FRONTEND_DIR"),
	}

	// PORT may be given as "8000" or ":8000"
	if cfg.Addr == "" {
		cfg.Addr = "8000"
	}
	if !strings.HasPrefix(cfg.Addr, ":") {
		cfg.Addr = ":" + cfg.Addr
	}

	cfg.GitHubBaseURL = strings.TrimSuffix(cfg.GitHubBaseURL, "/")
	if cfg.GitHubBaseURL == "" {
		cfg.GitHubBaseURL = "https://api.github.com"
	}

	if cfg.LLMBaseURL == "" {
		cfg.LLMBaseURL = "https://api.openai.com/v1"
	}
	if cfg.LLMModel == "" {
		cfg.LLMModel = "gpt-4o-mini"
	}

	if cfg.FrontendDir == "" {
		cfg.FrontendDir = "frontend"
	}

	return cfg
}
