package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties/resolver"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/exception"
)

const (
	// DefaultMasheryURL - the public Mashery V3 REST base url
	DefaultMasheryURL = "https://api.mashery.com/v3/rest"
	// DefaultMasheryTimeout - per request timeout
	DefaultMasheryTimeout = 60 * time.Second

	pathMasheryURL      = "mashery.url"
	pathMasheryToken    = "mashery.token"
	pathMasheryTimeout  = "mashery.timeout"
	pathMasheryPageSize = "mashery.pageSize"
	pathMasheryProxyURL = "mashery.proxyUrl"
	masheryPrefix       = "mashery"
)

// MasheryConfig - interface to get the Mashery connection settings
type MasheryConfig interface {
	GetURL() string
	GetToken() string
	GetTimeout() time.Duration
	GetPageSize() int
	GetProxyURL() string
	GetTLSConfig() TLSConfig
}

// MasheryConfiguration - connection settings for the Mashery V3 API
type MasheryConfiguration struct {
	URL      string        `config:"url"`
	Token    string        `config:"token"`
	Timeout  time.Duration `config:"timeout"`
	PageSize int           `config:"pageSize"`
	ProxyURL string        `config:"proxyUrl"`
	TLS      TLSConfig     `config:"ssl"`
}

// AddMasheryConfigProperties - Adds the command properties needed for the Mashery connection
func AddMasheryConfigProperties(props properties.Properties) {
	props.AddStringProperty(pathMasheryURL, DefaultMasheryURL, "Base URL of the Mashery V3 REST API")
	props.AddStringProperty(pathMasheryToken, "", "Bearer token for the Mashery V3 API, @file:<path> reads it from a file")
	props.AddDurationProperty(pathMasheryTimeout, DefaultMasheryTimeout, "Timeout for each request to Mashery")
	props.AddIntProperty(pathMasheryPageSize, 0, "Number of items requested per page, 0 requests each collection in a single call")
	props.AddStringProperty(pathMasheryProxyURL, "", "Proxy URL (http, https or socks5) used to reach Mashery")
	AddTLSConfigProperties(props, masheryPrefix)
}

// ParseMasheryConfig - reads the Mashery connection settings
func ParseMasheryConfig(props properties.Properties) (MasheryConfig, error) {
	token, err := resolver.ResolveSecret(props.StringPropertyValue(pathMasheryToken))
	if err != nil {
		return nil, ErrSecretResolution.FormatError(pathMasheryToken, err)
	}

	cfg := &MasheryConfiguration{
		URL:      strings.TrimSuffix(strings.TrimSpace(props.StringPropertyValue(pathMasheryURL)), "/"),
		Token:    strings.TrimSpace(token),
		Timeout:  props.DurationPropertyValue(pathMasheryTimeout),
		PageSize: props.IntPropertyValue(pathMasheryPageSize),
		ProxyURL: strings.TrimSpace(props.StringPropertyValue(pathMasheryProxyURL)),
		TLS:      ParseTLSConfig(props, masheryPrefix),
	}
	return cfg, nil
}

// GetURL - the base url without a trailing slash
func (c *MasheryConfiguration) GetURL() string {
	return c.URL
}

// GetToken -
func (c *MasheryConfiguration) GetToken() string {
	return c.Token
}

// GetTimeout -
func (c *MasheryConfiguration) GetTimeout() time.Duration {
	return c.Timeout
}

// GetPageSize - 0 disables paging
func (c *MasheryConfiguration) GetPageSize() int {
	return c.PageSize
}

// GetProxyURL -
func (c *MasheryConfiguration) GetProxyURL() string {
	return c.ProxyURL
}

// GetTLSConfig -
func (c *MasheryConfiguration) GetTLSConfig() TLSConfig {
	return c.TLS
}

// ValidateCfg - Validates the config, implementing IConfigInterface
func (c *MasheryConfiguration) ValidateCfg() (err error) {
	exception.Block{
		Try: func() {
			c.validateConfig()
		},
		Catch: func(e error) {
			err = e
		},
	}.Do()

	return
}

func (c *MasheryConfiguration) validateConfig() {
	if c.URL == "" {
		exception.Throw(ErrBadConfig.FormatError(pathMasheryURL))
	}
	u, err := url.ParseRequestURI(c.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		exception.Throw(ErrBadConfig.FormatError(pathMasheryURL))
	}

	if c.Token == "" {
		exception.Throw(ErrBadConfig.FormatError(pathMasheryToken))
	}

	if c.Timeout <= 0 {
		exception.Throw(ErrBadConfig.FormatError(pathMasheryTimeout))
	}

	if c.PageSize < 0 {
		exception.Throw(ErrBadConfig.FormatError(pathMasheryPageSize))
	}

	if c.ProxyURL != "" {
		proxy, err := url.Parse(c.ProxyURL)
		if err != nil || proxy.Host == "" {
			exception.Throw(ErrBadConfig.FormatError(pathMasheryProxyURL))
		}
		switch proxy.Scheme {
		case "http", "https", "socks5", "socks5h":
		default:
			exception.Throw(ErrBadConfig.FormatError(pathMasheryProxyURL))
		}
	}
}
