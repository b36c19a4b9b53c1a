package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

func LoadCredentials(conf Check) (string, string, error) {
	email, err := commoncfg.LoadValueFromSourceRef(conf.Email)
	if err != nil {
		return "", "", fmt.Errorf("loading check email: %w", err)
	}

	password, err := commoncfg.LoadValueFromSourceRef(conf.Password)
	if err != nil {
		return "", "", fmt.Errorf("loading check password: %w", err)
	}

	if len(email) == 0 || len(password) == 0 {
		return "", "", errors.New("check email and password are required")
	}

	return strings.TrimSpace(string(email)), string(password), nil
}

// LoadCSRFSecret returns the configured secret, or nil when none is set.
func LoadCSRFSecret(conf HTTPServer) ([]byte, error) {
	if conf.CSRFSecret.Source == "" {
		return nil, nil
	}

	secret, err := commoncfg.LoadValueFromSourceRef(conf.CSRFSecret)
	if err != nil {
		return nil, fmt.Errorf("loading csrf secret: %w", err)
	}

	if len(secret) < 32 {
		return nil, fmt.Errorf("csrf secret must be at least 32 bytes, got %d", len(secret))
	}

	return secret, nil
}
