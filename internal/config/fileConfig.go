package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileConfig is the optional assistant.yaml override. Anything left zero
// falls back to the constants in this package.
type FileConfig struct {
	DBPath     string `yaml:"db_path"`
	ListenAddr string `yaml:"listen_addr"`

	Chunking struct {
		Size    int `yaml:"size"`
		Overlap int `yaml:"overlap"`
		Batch   int `yaml:"batch"`
	} `yaml:"chunking"`

	Providers struct {
		LLM       string `yaml:"llm"`       // "gemini" or "openai"
		Embedding string `yaml:"embedding"` // "google" or "openai"
	} `yaml:"providers"`
}

// LoadEnv loads a .env file when one exists. Missing files are fine, the
// process environment always wins.
func LoadEnv() {
	_ = godotenv.Load()
	refreshEnv()
}

func refreshEnv() {
	GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	AuthToken = os.Getenv("API_AUTH_TOKEN")
	RedisPassword = os.Getenv("REDIS_PASSWORD")
	NoAuthBypass = os.Getenv("NO_AUTH_BYPASS") == "true"
}

// LoadFile reads an assistant.yaml from path. A missing file returns a
// zero-valued config and no error so callers can rely on defaults.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c FileConfig) DBPathOrDefault() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return DefaultDBPath
}

func (c FileConfig) ListenAddrOrDefault() string {
	if c.ListenAddr != "" {
		return c.ListenAddr
	}
	return ServerListenAddr
}
