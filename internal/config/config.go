// Package config holds the persisted settings the engine reads at the start
// of each resolution pass: tracker endpoint and credentials, the link base
// URL, and the confirmation-form defaults. The core never mutates settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultBaseURL     = "https://tracker.yandex.ru/"
	defaultAPIEndpoint = "https://api.tracker.yandex.net/v2/issues"
)

// Settings is a read-only snapshot used for one resolution pass.
type Settings struct {
	// BaseURL is the prefix task links point at. Always carries a trailing
	// slash: Snapshot normalizes it so concatenating a task id yields a
	// well-formed URL.
	BaseURL string

	// APIEndpoint is the fixed issue-creation endpoint.
	APIEndpoint string

	Token string
	OrgID string

	DescriptionTemplate string
	DefaultAssignees    []string
}

// HasCredentials reports whether the remote tracker can be called at all.
func (s Settings) HasCredentials() bool {
	return s.Token != "" && s.OrgID != ""
}

// Source provides a settings snapshot at the start of a pass.
type Source interface {
	Snapshot() Settings
}

// Static is a fixed Settings value acting as its own Source.
type Static Settings

func (s Static) Snapshot() Settings { return Settings(s) }

// Manager reads settings from tracknote.yaml (working directory or
// ~/.config/tracknote) with TRACKNOTE_* environment overrides.
type Manager struct {
	v *viper.Viper
}

// Load builds a Manager. A missing config file is fine; anything else
// (unreadable file, bad yaml) is an error.
func Load() (*Manager, error) {
	v := viper.New()
	v.SetConfigName("tracknote")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "tracknote"))
	}

	v.SetDefault("base_url", defaultBaseURL)
	v.SetDefault("api_endpoint", defaultAPIEndpoint)
	v.SetDefault("description_template", "Created from notes.")
	v.SetDefault("default_assignees", []string{})

	v.SetEnvPrefix("TRACKNOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return &Manager{v: v}, nil
}

func (m *Manager) Snapshot() Settings {
	return Settings{
		BaseURL:             normalizeBaseURL(m.v.GetString("base_url")),
		APIEndpoint:         m.v.GetString("api_endpoint"),
		Token:               m.v.GetString("token"),
		OrgID:               m.v.GetString("org_id"),
		DescriptionTemplate: m.v.GetString("description_template"),
		DefaultAssignees:    m.v.GetStringSlice("default_assignees"),
	}
}

func normalizeBaseURL(u string) string {
	if u != "" && !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}
