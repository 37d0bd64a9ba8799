package ecommerce

import (
	"errors"
	"strings"
)

// BaseLinkerConfig holds configuration for the BaseLinker connector API
type BaseLinkerConfig struct {
	// Token is the API token sent in the X-BLToken header
	Token string
	// APIBaseURL is the connector endpoint
	APIBaseURL string
	// RateLimitPerMinute caps outbound calls; 0 disables limiting
	RateLimitPerMinute int
}

const (
	// BaseLinkerAPIURL is the production connector endpoint
	BaseLinkerAPIURL = "https://api.baselinker.com/connector.php"
	// BaseLinkerPlaceholderToken is the value shipped in sample env files
	BaseLinkerPlaceholderToken = "YOUR_NEW_TOKEN_HERE"
	// BaseLinkerDefaultRateLimit is the platform's per-minute request quota
	BaseLinkerDefaultRateLimit = 100
)

// Errors for BaseLinker configuration
var (
	ErrBaseLinkerConfigMissingToken     = errors.New("baselinker: token is required")
	ErrBaseLinkerConfigPlaceholderToken = errors.New("baselinker: token is the placeholder value")
	ErrBaseLinkerConfigInvalidRateLimit = errors.New("baselinker: rate limit must not be negative")
)

// NewBaseLinkerConfig creates a new BaseLinker configuration with defaults
func NewBaseLinkerConfig(token string) *BaseLinkerConfig {
	return &BaseLinkerConfig{
		Token:              token,
		APIBaseURL:         BaseLinkerAPIURL,
		RateLimitPerMinute: BaseLinkerDefaultRateLimit,
	}
}

// IsBaseLinkerTokenConfigured reports whether the token is usable. Empty and
// placeholder tokens are treated as missing.
func IsBaseLinkerTokenConfigured(token string) bool {
	token = strings.TrimSpace(token)
	return token != "" && token != BaseLinkerPlaceholderToken
}

// IsConfigured reports whether the configuration carries a usable token
func (c *BaseLinkerConfig) IsConfigured() bool {
	return c != nil && IsBaseLinkerTokenConfigured(c.Token)
}

// Validate validates the BaseLinker configuration and fills defaults. The
// token is trimmed in place so the header carries the value that was checked.
func (c *BaseLinkerConfig) Validate() error {
	c.Token = strings.TrimSpace(c.Token)
	if c.Token == "" {
		return ErrBaseLinkerConfigMissingToken
	}
	if c.Token == BaseLinkerPlaceholderToken {
		return ErrBaseLinkerConfigPlaceholderToken
	}
	if c.RateLimitPerMinute < 0 {
		return ErrBaseLinkerConfigInvalidRateLimit
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = BaseLinkerAPIURL
	}
	return nil
}
