package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/cmd/properties/resolver"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/exception"
)

// NotificationType - Type definition for notification targets
type NotificationType string

// NotificationTypes
const (
	NotifySMTP    = NotificationType("SMTP")
	NotifyWebhook = NotificationType("WEBHOOK")
)

// SMTPAuthType - the type of authentication methods the SMTP client supports
type SMTPAuthType string

// SMTPAuthTypes -
const (
	AnonymousAuth = SMTPAuthType("ANONYMOUS")
	LoginAuth     = SMTPAuthType("LOGIN")
	PlainAuth     = SMTPAuthType("PLAIN")
	NoAuth        = SMTPAuthType("NONE")
)

const (
	// DefaultSMTPSubject - subject template of the completion mail
	DefaultSMTPSubject = "Mashery export complete: ${outputFile}"
	// DefaultSMTPBody - body template of the completion mail
	DefaultSMTPBody = "Exported ${rows} rows and ${columns} columns from ${packages} packages, ${plans} plans, " +
		"${services} services and ${endpoints} endpoints to ${outputFile} (sheet ${sheet}) in ${duration}."

	pathWebhookURL     = "notify.webhook.url"
	pathWebhookHeaders = "notify.webhook.headers"
	pathSMTPHost       = "notify.smtp.host"
	pathSMTPPort       = "notify.smtp.port"
	pathSMTPFrom       = "notify.smtp.fromAddress"
	pathSMTPTo         = "notify.smtp.to"
	pathSMTPAuthType   = "notify.smtp.authType"
	pathSMTPIdentity   = "notify.smtp.identity"
	pathSMTPUsername   = "notify.smtp.username"
	pathSMTPPassword   = "notify.smtp.password"
	pathSMTPSubject    = "notify.smtp.subject"
	pathSMTPBody       = "notify.smtp.body"
)

// NotificationConfig - Interface to get the completion notification config
type NotificationConfig interface {
	GetNotificationTypes() []NotificationType
	GetWebhookURL() string
	GetWebhookHeaders() map[string]string
	GetSMTPURL() string
	GetSMTPHost() string
	GetSMTPFromAddress() string
	GetSMTPTo() []string
	GetSMTPAuthType() SMTPAuthType
	GetSMTPIdentity() string
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetSMTPTemplate() *EmailTemplate
}

// NotificationConfiguration - Structure to hold the notification config
type NotificationConfiguration struct {
	SMTP    *smtp    `config:"smtp"`
	Webhook *webhook `config:"webhook"`
	types   []NotificationType
}

type webhook struct {
	URL     string `config:"url"`
	Headers string `config:"headers"`
	headers map[string]string
}

type smtp struct {
	Host     string         `config:"host"`
	Port     int            `config:"port"`
	From     string         `config:"fromAddress"`
	To       []string       `config:"to"`
	AuthType SMTPAuthType   `config:"authType"`
	Identity string         `config:"identity"`
	Username string         `config:"username"`
	Password string         `config:"password"`
	Template *EmailTemplate `config:"template"`
}

// EmailTemplate -
type EmailTemplate struct {
	Subject string `config:"subject"`
	Body    string `config:"body"`
}

// AddNotificationConfigProperties -
func AddNotificationConfigProperties(props properties.Properties) {
	props.AddStringProperty(pathWebhookURL, "", "Webhook receiving a JSON summary after a successful export")
	props.AddStringProperty(pathWebhookHeaders, "", "Webhook headers, Header=<name>,Value=<value> pairs separated by commas")
	props.AddStringProperty(pathSMTPHost, "", "SMTP host for the completion mail")
	props.AddIntProperty(pathSMTPPort, 25, "SMTP port")
	props.AddStringProperty(pathSMTPFrom, "", "Sender address of the completion mail")
	props.AddStringSliceProperty(pathSMTPTo, []string{}, "Recipients of the completion mail")
	props.AddStringProperty(pathSMTPAuthType, string(NoAuth), "SMTP authentication (NONE, ANONYMOUS, LOGIN, PLAIN)")
	props.AddStringProperty(pathSMTPIdentity, "", "SMTP identity for PLAIN authentication, or trace for ANONYMOUS")
	props.AddStringProperty(pathSMTPUsername, "", "SMTP username")
	props.AddStringProperty(pathSMTPPassword, "", "SMTP password, @file:<path> reads it from a file")
	props.AddStringProperty(pathSMTPSubject, DefaultSMTPSubject, "Subject template, ${field} is replaced by the export summary")
	props.AddStringProperty(pathSMTPBody, DefaultSMTPBody, "Body template, ${field} is replaced by the export summary")
}

// ParseNotificationConfig -
func ParseNotificationConfig(props properties.Properties) (NotificationConfig, error) {
	password, err := resolver.ResolveSecret(props.StringPropertyValue(pathSMTPPassword))
	if err != nil {
		return nil, ErrSecretResolution.FormatError(pathSMTPPassword, err)
	}

	cfg := &NotificationConfiguration{
		Webhook: &webhook{
			URL:     strings.TrimSpace(props.StringPropertyValue(pathWebhookURL)),
			Headers: props.StringPropertyValue(pathWebhookHeaders),
		},
		SMTP: &smtp{
			Host:     strings.TrimSpace(props.StringPropertyValue(pathSMTPHost)),
			Port:     props.IntPropertyValue(pathSMTPPort),
			From:     props.StringPropertyValue(pathSMTPFrom),
			To:       cleanFieldList(props.StringSlicePropertyValue(pathSMTPTo)),
			AuthType: SMTPAuthType(strings.ToUpper(strings.TrimSpace(props.StringPropertyValue(pathSMTPAuthType)))),
			Identity: props.StringPropertyValue(pathSMTPIdentity),
			Username: props.StringPropertyValue(pathSMTPUsername),
			Password: password,
			Template: &EmailTemplate{
				Subject: props.StringPropertyValue(pathSMTPSubject),
				Body:    props.StringPropertyValue(pathSMTPBody),
			},
		},
	}

	if err := cfg.ValidateCfg(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewNotificationConfig - Creates a config with no notification targets
func NewNotificationConfig() NotificationConfig {
	return &NotificationConfiguration{
		Webhook: &webhook{headers: map[string]string{}},
		SMTP:    &smtp{Template: &EmailTemplate{}},
	}
}

// GetNotificationTypes - the configured targets, empty when notifications are disabled
func (n *NotificationConfiguration) GetNotificationTypes() []NotificationType {
	return n.types
}

// GetWebhookURL - Returns the webhook url for notifications
func (n *NotificationConfiguration) GetWebhookURL() string {
	return n.Webhook.URL
}

// GetWebhookHeaders - Returns the notification headers
func (n *NotificationConfiguration) GetWebhookHeaders() map[string]string {
	return n.Webhook.headers
}

// GetSMTPURL - Returns the URL for the SMTP server
func (n *NotificationConfiguration) GetSMTPURL() string {
	return fmt.Sprintf("%s:%d", n.SMTP.Host, n.SMTP.Port)
}

// GetSMTPHost - Returns the Host for the SMTP server
func (n *NotificationConfiguration) GetSMTPHost() string {
	return n.SMTP.Host
}

// GetSMTPFromAddress -
func (n *NotificationConfiguration) GetSMTPFromAddress() string {
	return n.SMTP.From
}

// GetSMTPTo -
func (n *NotificationConfiguration) GetSMTPTo() []string {
	return n.SMTP.To
}

// GetSMTPAuthType -
func (n *NotificationConfiguration) GetSMTPAuthType() SMTPAuthType {
	return n.SMTP.AuthType
}

// GetSMTPIdentity -
func (n *NotificationConfiguration) GetSMTPIdentity() string {
	return n.SMTP.Identity
}

// GetSMTPUsername -
func (n *NotificationConfiguration) GetSMTPUsername() string {
	return n.SMTP.Username
}

// GetSMTPPassword -
func (n *NotificationConfiguration) GetSMTPPassword() string {
	return n.SMTP.Password
}

// GetSMTPTemplate - returns the subject and body template of the completion mail
func (n *NotificationConfiguration) GetSMTPTemplate() *EmailTemplate {
	return n.SMTP.Template
}

// ValidateCfg - Validates the config and derives the notification targets from what is set
func (n *NotificationConfiguration) ValidateCfg() (err error) {
	exception.Block{
		Try: func() {
			n.validateConfig()
		},
		Catch: func(e error) {
			err = e
		},
	}.Do()

	return
}

func (n *NotificationConfiguration) validateConfig() {
	n.types = []NotificationType{}

	if n.Webhook != nil && n.Webhook.URL != "" {
		if u, err := url.ParseRequestURI(n.Webhook.URL); err != nil || u.Host == "" {
			exception.Throw(ErrBadConfig.FormatError(pathWebhookURL))
		}
		headers, err := parseWebhookHeaders(n.Webhook.Headers)
		if err != nil {
			exception.Throw(err)
		}
		n.Webhook.headers = headers
		n.types = append(n.types, NotifyWebhook)
	}

	if n.SMTP != nil && n.SMTP.Host != "" {
		if n.SMTP.Port <= 0 || n.SMTP.Port > 65535 {
			exception.Throw(ErrBadConfig.FormatError(pathSMTPPort))
		}
		if n.SMTP.From == "" {
			exception.Throw(ErrBadConfig.FormatError(pathSMTPFrom))
		}
		if len(n.SMTP.To) == 0 {
			exception.Throw(ErrMissingNotificationDest)
		}
		switch n.SMTP.AuthType {
		case "":
			n.SMTP.AuthType = NoAuth
		case NoAuth, AnonymousAuth:
		case LoginAuth, PlainAuth:
			if n.SMTP.Username == "" {
				exception.Throw(ErrBadConfig.FormatError(pathSMTPUsername))
			}
		default:
			exception.Throw(ErrInvalidSMTPAuthType.FormatError(string(n.SMTP.AuthType), "NONE, ANONYMOUS, LOGIN, PLAIN"))
		}
		n.types = append(n.types, NotifySMTP)
	}
}

// parseWebhookHeaders reads "Header=X-Api-Key,Value=abc, Header=X-Team,Value=ops"
func parseWebhookHeaders(value string) (map[string]string, error) {
	headers := map[string]string{}
	value = strings.TrimSpace(value)
	if value == "" {
		return headers, nil
	}

	value = strings.ReplaceAll(value, ", ", ",")
	for _, headerValue := range strings.Split(value, ",Header=") {
		hvArray := strings.SplitN(headerValue, ",Value=", 2)
		if len(hvArray) != 2 {
			return nil, ErrInvalidWebhookHeaders.FormatError(pathWebhookHeaders)
		}
		name := strings.TrimSpace(strings.TrimPrefix(hvArray[0], "Header="))
		if name == "" {
			return nil, ErrInvalidWebhookHeaders.FormatError(pathWebhookHeaders)
		}
		headers[name] = hvArray[1]
	}
	return headers, nil
}
