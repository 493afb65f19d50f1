package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Встроенные списки зеркал. Порядок имеет значение: фолбэк идёт строго сверху вниз.
var (
	defaultNitterInstances = []string{
		"https://nitter.net",
		"https://nitter.privacydev.net",
		"https://nitter.poast.org",
	}
	defaultHubInstances = []string{
		"https://rsshub.app",
		"https://rsshub.rssforever.com",
		"https://hub.slarker.me",
	}
)

// Config хранит адрес HTTP-сервера, публичный URL прокси и списки зеркал по семействам.
type Config struct {
	Port            string
	PublicURL       string
	NitterInstances []string
	HubInstances    []string
}

// Load собирает конфигурацию из переменных окружения.
// NITTER_INSTANCE заменяет только первое зеркало Nitter-семейства,
// остальной список остаётся встроенным.
func Load() *Config {
	cfg := &Config{
		Port:            os.Getenv("PORT"),
		PublicURL:       strings.TrimRight(os.Getenv("PUBLIC_URL"), "/"),
		NitterInstances: append([]string(nil), defaultNitterInstances...),
		HubInstances:    append([]string(nil), defaultHubInstances...),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if primary := strings.TrimRight(os.Getenv("NITTER_INSTANCE"), "/"); primary != "" {
		cfg.NitterInstances[0] = primary
	}
	return cfg
}

// Validate проверяет, что списки зеркал не пусты и каждый базовый URL корректен.
func (cfg *Config) Validate() error {
	if len(cfg.NitterInstances) == 0 || len(cfg.HubInstances) == 0 {
		return errors.New("mirror list must not be empty")
	}
	for _, base := range append(append([]string(nil), cfg.NitterInstances...), cfg.HubInstances...) {
		u, err := url.ParseRequestURI(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid mirror base URL: %s", base)
		}
	}
	if cfg.PublicURL != "" {
		if _, err := url.ParseRequestURI(cfg.PublicURL); err != nil {
			return fmt.Errorf("invalid public URL: %s", cfg.PublicURL)
		}
	}
	return nil
}
