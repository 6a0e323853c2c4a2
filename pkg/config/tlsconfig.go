package config

import (
	"crypto/tls"
	"sort"
	"strings"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/exception"
)

// TLSVersion - define type for version
type TLSVersion uint16

var tlsVersions = map[string]TLSVersion{
	"TLS1.0": tls.VersionTLS10,
	"TLS1.1": tls.VersionTLS11,
	"TLS1.2": tls.VersionTLS12,
	"TLS1.3": tls.VersionTLS13,
}

var tlsVersionsInverse = make(map[TLSVersion]string, len(tlsVersions))

func init() {
	for versionName, v := range tlsVersions {
		tlsVersionsInverse[v] = versionName
	}
}

// TLSDefaultMinVersion - the minimum version used when none is configured
var TLSDefaultMinVersion TLSVersion = tls.VersionTLS12

// TLSDefaultMinVersionString - get the default min version string
func TLSDefaultMinVersionString() string {
	return tlsVersionsInverse[TLSDefaultMinVersion]
}

// TLSVersionAsValue - get the version value, 0 keeps the go default and an unknown name returns a bogus value for validation
func TLSVersionAsValue(name string) TLSVersion {
	if name == "" || name == "0" {
		return TLSVersion(0)
	}
	if v, ok := tlsVersions[strings.ToUpper(name)]; ok {
		return v
	}
	return TLSVersion(1)
}

func (v TLSVersion) String() string {
	if s, found := tlsVersionsInverse[v]; found {
		return s
	}
	if v == 0 {
		return "default"
	}
	return "unknown"
}

// TLSConfig - interface
type TLSConfig interface {
	IsInsecureSkipVerify() bool
	GetMinVersion() TLSVersion
	BuildTLSConfig() *tls.Config
}

// TLSConfiguration - the client side tls settings used when calling Mashery
type TLSConfiguration struct {
	// InsecureSkipVerify disables verification of the server certificate chain and host name.
	// Only for testing against self signed gateways.
	InsecureSkipVerify bool       `config:"insecureSkipVerify"`
	MinVersion         TLSVersion `config:"minVersion"`
}

const (
	pathSSLInsecureSkipVerify = "ssl.insecureSkipVerify"
	pathSSLMinVersion         = "ssl.minVersion"
)

// NewTLSConfig - build default config
func NewTLSConfig() TLSConfig {
	return &TLSConfiguration{
		InsecureSkipVerify: false,
		MinVersion:         TLSDefaultMinVersion,
	}
}

// AddTLSConfigProperties - adds the ssl properties below prefix
func AddTLSConfigProperties(props properties.Properties, prefix string) {
	props.AddBoolProperty(prefix+"."+pathSSLInsecureSkipVerify, false, "Controls whether a client verifies the server's certificate chain and host name")
	props.AddStringProperty(prefix+"."+pathSSLMinVersion, TLSDefaultMinVersionString(), "Minimum acceptable SSL/TLS protocol version ("+strings.Join(tlsVersionNames(), ", ")+")")
}

// ParseTLSConfig - reads the ssl properties below prefix
func ParseTLSConfig(props properties.Properties, prefix string) TLSConfig {
	return &TLSConfiguration{
		InsecureSkipVerify: props.BoolPropertyValue(prefix + "." + pathSSLInsecureSkipVerify),
		MinVersion:         TLSVersionAsValue(props.StringPropertyValue(prefix + "." + pathSSLMinVersion)),
	}
}

// BuildTLSConfig takes the TLSConfiguration and transforms it into a `tls.Config`.
func (c *TLSConfiguration) BuildTLSConfig() *tls.Config {
	if c == nil {
		return &tls.Config{MinVersion: uint16(TLSDefaultMinVersion)}
	}

	return &tls.Config{
		MinVersion:         uint16(c.MinVersion),
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}

// IsInsecureSkipVerify -
func (c *TLSConfiguration) IsInsecureSkipVerify() bool {
	return c.InsecureSkipVerify
}

// GetMinVersion -
func (c *TLSConfiguration) GetMinVersion() TLSVersion {
	return c.MinVersion
}

// ValidateCfg - Validates the config, implementing IConfigInterface
func (c *TLSConfiguration) ValidateCfg() (err error) {
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

func (c *TLSConfiguration) validateConfig() {
	if c.MinVersion == 0 {
		return
	}
	if _, ok := tlsVersionsInverse[c.MinVersion]; !ok {
		exception.Throw(ErrBadConfig.FormatError(pathSSLMinVersion))
	}
}

func tlsVersionNames() []string {
	names := make([]string, 0, len(tlsVersions))
	for name := range tlsVersions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
