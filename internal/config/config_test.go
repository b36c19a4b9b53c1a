package config

import (
	"fmt"
	"testing"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			HTTP:    HTTPServer{Address: "127.0.0.1:8765"},
			Backend: Backend{BaseURL: "https://api.example.com"},
			Session: Session{RefreshInterval: 4 * time.Minute},
		}
	}

	tests := []struct {
		name      string
		modify    func(*Config)
		assertErr assert.ErrorAssertionFunc
	}{
		{
			name:      "Valid",
			modify:    func(*Config) {},
			assertErr: assert.NoError,
		},
		{
			name:      "Backend URL without scheme",
			modify:    func(c *Config) { c.Backend.BaseURL = "api.example.com" },
			assertErr: assert.Error,
		},
		{
			name:      "Malformed backend URL",
			modify:    func(c *Config) { c.Backend.BaseURL = "http://[::1" },
			assertErr: assert.Error,
		},
		{
			name:      "Zero refresh interval",
			modify:    func(c *Config) { c.Session.RefreshInterval = 0 },
			assertErr: assert.Error,
		},
		{
			name:      "Missing address",
			modify:    func(c *Config) { c.HTTP.Address = "" },
			assertErr: assert.Error,
		},
		{
			name: "Unix socket address",
			modify: func(c *Config) {
				c.HTTP.Address = "unix:///tmp/session-client.sock"
				c.HTTP.CSRFSecret = commoncfg.SourceRef{Source: "embedded", Value: "x"}
			},
			assertErr: assert.NoError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			tt.assertErr(t, cfg.Validate())
		})
	}
}

func TestConfig_Redacted(t *testing.T) {
	cfg := &Config{
		HTTP: HTTPServer{
			Address:    "127.0.0.1:8765",
			CSRFSecret: commoncfg.SourceRef{Source: "embedded", Value: "csrf-secret-value"},
		},
		Backend: Backend{BaseURL: "https://api.example.com"},
		Check: Check{
			Email:    commoncfg.SourceRef{Source: "embedded", Value: "valid@x.com"},
			Password: commoncfg.SourceRef{Source: "embedded", Value: "correctpw"},
		},
	}

	redacted := cfg.Redacted()
	logged := fmt.Sprintf("%+v", redacted)

	assert.NotContains(t, logged, "csrf-secret-value")
	assert.NotContains(t, logged, "correctpw")
	assert.NotContains(t, logged, "valid@x.com")
	assert.Equal(t, cfg.HTTP.Address, redacted.HTTP.Address)
	assert.Equal(t, cfg.Backend, redacted.Backend)

	// the original is left untouched
	assert.Equal(t, "correctpw", cfg.Check.Password.Value)
	assert.Equal(t, "csrf-secret-value", cfg.HTTP.CSRFSecret.Value)
}
