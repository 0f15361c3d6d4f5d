package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("no Anthropic API key configured")

// ErrNoJWTSecret is returned when the server has no signing secret.
var ErrNoJWTSecret = errors.New("no JWT secret configured (set server.jwt_secret or COPILOT_JWT_SECRET)")

// MinJWTSecretLength is the shortest accepted signing secret.
const MinJWTSecretLength = 16

// GetAPIKey returns the Anthropic API key from the configuration.
// It checks in order: environment variable, config file.
func GetAPIKey(cfg *Config) (string, error) {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return key, nil
	}
	if cfg != nil {
		if key := resolved(cfg.Anthropic.APIKey); key != "" {
			return key, nil
		}
	}
	return "", ErrNoAPIKey
}

// HasModel reports whether the LLM-backed intent parser and drafter can
// be used: either an API key is set or Bedrock is enabled.
func HasModel(cfg *Config) bool {
	if cfg != nil && cfg.Anthropic.UseBedrock {
		return true
	}
	_, err := GetAPIKey(cfg)
	return err == nil
}

// JWTSecret returns the server signing secret.
func JWTSecret(cfg *Config) ([]byte, error) {
	if cfg == nil {
		return nil, ErrNoJWTSecret
	}
	secret := resolved(cfg.Server.JWTSecret)
	if secret == "" {
		return nil, ErrNoJWTSecret
	}
	if len(secret) < MinJWTSecretLength {
		return nil, fmt.Errorf("JWT secret must be at least %d characters", MinJWTSecretLength)
	}
	return []byte(secret), nil
}

// resolved expands env references and drops unexpanded placeholders.
func resolved(v string) string {
	v = os.ExpandEnv(v)
	if strings.HasPrefix(v, "${") {
		return ""
	}
	return v
}

// ValidateAPIKey performs basic validation on an API key.
// It checks format but does not verify the key with Anthropic's API.
func ValidateAPIKey(key string) error {
	if key == "" {
		return ErrNoAPIKey
	}

	// Anthropic API keys start with "sk-ant-"
	if !strings.HasPrefix(key, "sk-ant-") {
		return errors.New("invalid API key format: expected 'sk-ant-' prefix")
	}

	if len(key) < 20 {
		return errors.New("invalid API key format: key too short")
	}

	return nil
}

// MaskAPIKey returns a masked version of the API key for display.
// Shows the first 7 characters (sk-ant-) and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 15 {
		return "***"
	}

	return key[:7] + "..." + key[len(key)-4:]
}

// DisplayValue formats a config value for the config command, masking secrets.
func DisplayValue(key string, value interface{}) string {
	s := fmt.Sprint(value)
	if list, ok := value.([]string); ok {
		s = strings.Join(list, ",")
	}
	if IsSecret(key) {
		return MaskAPIKey(s)
	}
	if s == "" {
		return "(not set)"
	}
	return s
}

// KeySource represents where an API key was loaded from.
type KeySource string

const (
	KeySourceEnv     KeySource = "environment"
	KeySourceConfig  KeySource = "config_file"
	KeySourceBedrock KeySource = "aws_bedrock"
	KeySourceNone    KeySource = "none"
)

// GetAPIKeySource returns where the model credentials come from.
func GetAPIKeySource(cfg *Config) KeySource {
	if cfg != nil && cfg.Anthropic.UseBedrock {
		return KeySourceBedrock
	}
	if os.Getenv("ANTHROPIC_API_KEY") != "" {
		return KeySourceEnv
	}
	if cfg != nil && resolved(cfg.Anthropic.APIKey) != "" {
		return KeySourceConfig
	}
	return KeySourceNone
}
