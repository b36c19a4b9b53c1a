// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	HTTP      HTTPServer `yaml:"http"`
	Backend   Backend    `yaml:"backend"`
	Session   Session    `yaml:"session"`
	APIClient APIClient  `yaml:"apiClient"`
	Check     Check      `yaml:"check"`
}

// HTTPServer configures the local console server. The address accepts the
// network://address form, e.g. unix:///run/session-client.sock.
type HTTPServer struct {
	Address         string              `yaml:"address" default:"127.0.0.1:8765"`
	ShutdownTimeout time.Duration       `yaml:"shutdownTimeout" default:"5s"`
	CSRFSecret      commoncfg.SourceRef `yaml:"csrfSecret"`
}

type Backend struct {
	BaseURL     string        `yaml:"baseURL" default:"http://localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" default:"10s"`
	LoginPath   string        `yaml:"loginPath" default:"/auth/login"`
	RefreshPath string        `yaml:"refreshPath" default:"/auth/refresh"`
	LogoutPath  string        `yaml:"logoutPath" default:"/auth/logout"`
}

type Session struct {
	RefreshInterval time.Duration `yaml:"refreshInterval" default:"4m"`
	LoginPath       string        `yaml:"loginPath" default:"/login"`
	ReturnParam     string        `yaml:"returnParam" default:"next"`
}

type APIClient struct {
	CacheTTL time.Duration `yaml:"cacheTTL" default:"30s"`
}

// Check holds the credentials the check job signs in with.
type Check struct {
	Email    commoncfg.SourceRef `yaml:"email"`
	Password commoncfg.SourceRef `yaml:"password"`
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing backend.baseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.baseURL must be an http or https url, got %q", c.Backend.BaseURL)
	}

	if c.Session.RefreshInterval <= 0 {
		return errors.New("session.refreshInterval must be positive")
	}

	if c.HTTP.Address == "" {
		return errors.New("http.address is required")
	}

	return nil
}

// Redacted returns a copy of the configuration safe to log. Sections that
// may carry inline secrets are zeroed.
func (c *Config) Redacted() Config {
	redacted := *c
	redacted.HTTP.CSRFSecret = commoncfg.SourceRef{}
	redacted.Check = Check{}

	return redacted
}
