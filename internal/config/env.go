package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from the environment.
type EnvConfig struct {
	Corpus         string `env:"TYPETEST_CORPUS"`
	WordList       string `env:"TYPETEST_WORDLIST"`
	HistoryBackend string `env:"TYPETEST_HISTORY_BACKEND"`
	HistoryPath    string `env:"TYPETEST_HISTORY_PATH"`
}

// LoadEnv parses environment overrides.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse env: %w", err)
	}
	return cfg, nil
}

// Merge applies non-empty environment values on top of the file config.
func (e EnvConfig) Merge(fc FileConfig) FileConfig {
	setString(&fc.Practice.Corpus, e.Corpus)
	setString(&fc.Practice.WordList, e.WordList)
	setString(&fc.History.Backend, e.HistoryBackend)
	setString(&fc.History.Path, e.HistoryPath)
	return fc
}

func setString(target **string, value string) {
	if value == "" {
		return
	}
	v := value
	*target = &v
}
