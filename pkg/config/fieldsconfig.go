package config

import (
	"strings"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/exception"
)

// Field lists requested from Mashery and copied into each row
var (
	DefaultPackageFields = []string{"id", "name", "production"}

	DefaultPlanFields = []string{
		"id", "name", "status", "description", "keyLifespan",
		"rateLimitCeiling", "rateLimitExempt", "rateLimitKeyOverrideAllowed", "rateLimitPeriod",
		"qpsLimitCeiling", "qpsLimitExempt", "qpsLimitKeyOverrideAllowed",
		"maxNumKeysAllowed", "numKeysBeforeReview", "responseFilterOverrideAllowed",
		"selfServiceKeyProvisioningEnabled", "adminKeyProvisioningEnabled", "listed", "production",
	}

	DefaultServiceFields = []string{"id", "name", "version"}

	DefaultEndpointFields = []string{
		"id", "name", "type", "requestProtocol", "requestAuthenticationType",
		"customRequestAuthenticationAdapter", "outboundTransportProtocol", "trafficManagerDomain",
		"outboundRequestTargetPath", "outboundRequestTargetQueryParameters", "requestPathAlias",
		"apiMethodDetectionKey", "apiKeyValueLocationKey", "highSecurity", "httpsClientProfile",
	}

	DefaultArrayFields = []string{
		"supportedHttpMethods", "apiMethodDetectionLocations", "oauthGrantTypes", "apiKeyValueLocations",
		"publicDomains:address", "systemDomains:address",
	}
)

const (
	pathFieldsPackage  = "fields.package"
	pathFieldsPlan     = "fields.plan"
	pathFieldsService  = "fields.service"
	pathFieldsEndpoint = "fields.endpoint"
	pathFieldsArray    = "fields.array"
)

// ArrayField - an endpoint field holding a list, rendered as one comma joined cell.
// SubKey names the attribute read from object elements.
type ArrayField struct {
	Name   string
	SubKey string
}

// ParseArrayField - parses name or name:subKey
func ParseArrayField(value string) (ArrayField, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) > 2 {
		return ArrayField{}, ErrInvalidArrayField.FormatError(value)
	}

	field := ArrayField{Name: strings.TrimSpace(parts[0])}
	if len(parts) == 2 {
		field.SubKey = strings.TrimSpace(parts[1])
		if field.SubKey == "" {
			return ArrayField{}, ErrInvalidArrayField.FormatError(value)
		}
	}
	if field.Name == "" {
		return ArrayField{}, ErrInvalidArrayField.FormatError(value)
	}
	return field, nil
}

func (f ArrayField) String() string {
	if f.SubKey == "" {
		return f.Name
	}
	return f.Name + ":" + f.SubKey
}

// FieldsConfiguration - the allow-lists for each catalog level
type FieldsConfiguration struct {
	Package  []string     `config:"package"`
	Plan     []string     `config:"plan"`
	Service  []string     `config:"service"`
	Endpoint []string     `config:"endpoint"`
	Array    []ArrayField `config:"array"`
}

// NewFieldsConfig - the default allow-lists
func NewFieldsConfig() *FieldsConfiguration {
	cfg := &FieldsConfiguration{
		Package:  append([]string{}, DefaultPackageFields...),
		Plan:     append([]string{}, DefaultPlanFields...),
		Service:  append([]string{}, DefaultServiceFields...),
		Endpoint: append([]string{}, DefaultEndpointFields...),
	}
	for _, f := range DefaultArrayFields {
		field, _ := ParseArrayField(f)
		cfg.Array = append(cfg.Array, field)
	}
	return cfg
}

// AddFieldsConfigProperties - Adds the command properties for the field allow-lists
func AddFieldsConfigProperties(props properties.Properties) {
	props.AddStringSliceProperty(pathFieldsPackage, DefaultPackageFields, "Package fields copied into each row")
	props.AddStringSliceProperty(pathFieldsPlan, DefaultPlanFields, "Plan fields copied into each row")
	props.AddStringSliceProperty(pathFieldsService, DefaultServiceFields, "Service fields copied into each row")
	props.AddStringSliceProperty(pathFieldsEndpoint, DefaultEndpointFields, "Endpoint fields copied into each row")
	props.AddStringSliceProperty(pathFieldsArray, DefaultArrayFields, "Endpoint list fields joined into one cell, name or name:subKey")
}

// ParseFieldsConfig - reads the allow-lists
func ParseFieldsConfig(props properties.Properties) (*FieldsConfiguration, error) {
	cfg := &FieldsConfiguration{
		Package:  cleanFieldList(props.StringSlicePropertyValue(pathFieldsPackage)),
		Plan:     cleanFieldList(props.StringSlicePropertyValue(pathFieldsPlan)),
		Service:  cleanFieldList(props.StringSlicePropertyValue(pathFieldsService)),
		Endpoint: cleanFieldList(props.StringSlicePropertyValue(pathFieldsEndpoint)),
	}

	for _, value := range cleanFieldList(props.StringSlicePropertyValue(pathFieldsArray)) {
		field, err := ParseArrayField(value)
		if err != nil {
			return nil, err
		}
		cfg.Array = append(cfg.Array, field)
	}
	return cfg, nil
}

// ArrayFieldNames - names of the array fields, as requested from Mashery
func (c *FieldsConfiguration) ArrayFieldNames() []string {
	names := make([]string, 0, len(c.Array))
	for _, f := range c.Array {
		names = append(names, f.Name)
	}
	return names
}

// ValidateCfg - Validates the config, implementing IConfigInterface
func (c *FieldsConfiguration) ValidateCfg() (err error) {
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

func (c *FieldsConfiguration) validateConfig() {
	lists := map[string][]string{
		pathFieldsPackage:  c.Package,
		pathFieldsPlan:     c.Plan,
		pathFieldsService:  c.Service,
		pathFieldsEndpoint: c.Endpoint,
	}
	for path, list := range lists {
		for _, name := range list {
			// a comma or slash would change the projection sent to Mashery
			if name == "" || strings.ContainsAny(name, ",/ ") {
				exception.Throw(ErrBadConfig.FormatError(path))
			}
		}
	}

	for _, f := range c.Array {
		if f.Name == "" || strings.ContainsAny(f.Name, ",/ ") {
			exception.Throw(ErrInvalidArrayField.FormatError(f.String()))
		}
	}
}

func cleanFieldList(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return cleaned
}
