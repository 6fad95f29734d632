package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	SourceTypeTelegram = "telegram"
	SourceTypeRSS      = "rss"
)

// SourceConfig описывает один внешний источник
type SourceConfig struct {
	Type     string   `yaml:"type"`
	Label    string   `yaml:"label"`
	Token    string   `yaml:"token"`
	TokenEnv string   `yaml:"token_env"`
	BaseURL  string   `yaml:"base_url"`
	Channels []string `yaml:"channels"`
	URL      string   `yaml:"url"`

	// Подсказки о местоположении, которыми помечаются инциденты источника
	Region      string `yaml:"region"`
	Country     string `yaml:"country"`
	Subdivision string `yaml:"subdivision"`
	Location    string `yaml:"location"`
}

type sourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// Key - стабильный идентификатор источника для курсоров и хэшей
func (s SourceConfig) Key() string {
	return s.Type + ":" + s.Label
}

// ResolveToken возвращает токен из конфигурации или из переменной окружения token_env
func (s SourceConfig) ResolveToken() string {
	if t := strings.TrimSpace(s.Token); t != "" {
		return t
	}
	if s.TokenEnv != "" {
		return strings.TrimSpace(os.Getenv(s.TokenEnv))
	}
	return ""
}

// LoadSources читает список источников из YAML. Отсутствующий файл - пустой список
func LoadSources(path string) ([]SourceConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read sources file %s: %w", path, err)
	}
	return ParseSources(b)
}

// ParseSources разбирает YAML со списком источников
func ParseSources(data []byte) ([]SourceConfig, error) {
	var f sourcesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse sources: %w", err)
	}
	// Метка обязательна: Key() входит в хэш содержимого и ключ курсора
	seen := make(map[string]struct{}, len(f.Sources))
	for i := range f.Sources {
		src := &f.Sources[i]
		src.Type = strings.ToLower(strings.TrimSpace(src.Type))
		src.Label = strings.TrimSpace(src.Label)
		if src.Label == "" {
			return nil, fmt.Errorf("source #%d (%s): label is required", i+1, src.Type)
		}
		if _, dup := seen[src.Key()]; dup {
			return nil, fmt.Errorf("source #%d: duplicate source %q", i+1, src.Key())
		}
		seen[src.Key()] = struct{}{}
	}
	return f.Sources, nil
}
