package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/54Rakshit/mashery-export-xlsx/pkg/api"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/config"
	"github.com/54Rakshit/mashery-export-xlsx/pkg/util/log"
	sasl "github.com/emersion/go-sasl"
	smtp "github.com/emersion/go-smtp"
)

type sendMailFunc func(addr string, a sasl.Client, from string, to []string, r io.Reader) error

// Notifier - sends the export summary to every configured target
type Notifier struct {
	cfg       config.NotificationConfig
	apiClient api.Client
	sendMail  sendMailFunc
	logger    log.FieldLogger
}

// NewNotifier -
func NewNotifier(cfg config.NotificationConfig, apiClient api.Client) *Notifier {
	return &Notifier{
		cfg:       cfg,
		apiClient: apiClient,
		sendMail:  smtp.SendMail,
		logger: log.NewFieldLogger().
			WithComponent("notifier").
			WithPackage("notify"),
	}
}

// Enabled - true when at least one target is configured
func (n *Notifier) Enabled() bool {
	return n.cfg != nil && len(n.cfg.GetNotificationTypes()) > 0
}

// Notify - sends the notification to each configured target. A failing target does not stop the others,
// the failures are returned together.
func (n *Notifier) Notify(ctx context.Context, notification *ExportNotification) error {
	if !n.Enabled() {
		return nil
	}

	var errs []error
	for _, notificationType := range n.cfg.GetNotificationTypes() {
		var err error
		switch notificationType {
		case config.NotifyWebhook:
			err = n.notifyViaWebhook(ctx, notification)
		case config.NotifySMTP:
			err = n.notifyViaSMTP(notification)
		default:
			continue
		}

		logger := n.logger.WithField("type", notificationType)
		if err != nil {
			logger.WithError(err).Error("could not send export notification")
			errs = append(errs, ErrNotification.FormatError(notificationType, err))
			continue
		}
		logger.Debug("export notification sent")
	}
	return errors.Join(errs...)
}

func (n *Notifier) notifyViaWebhook(ctx context.Context, notification *ExportNotification) error {
	buffer, err := json.Marshal(notification)
	if err != nil {
		return ErrNotificationData.FormatError(err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range n.cfg.GetWebhookHeaders() {
		headers[k] = v
	}

	request := api.Request{
		Method:  api.POST,
		URL:     n.cfg.GetWebhookURL(),
		Headers: headers,
		Body:    buffer,
	}

	response, err := n.apiClient.Send(ctx, request)
	if err != nil {
		return err
	}
	if response == nil || response.Code < 200 || response.Code > 299 {
		code := 0
		if response != nil {
			code = response.Code
		}
		return ErrWebhookStatus.FormatError(n.cfg.GetWebhookURL(), code)
	}
	return nil
}

func (n *Notifier) smtpAuth() (sasl.Client, error) {
	switch n.cfg.GetSMTPAuthType() {
	case config.LoginAuth:
		return sasl.NewLoginClient(n.cfg.GetSMTPUsername(), n.cfg.GetSMTPPassword()), nil
	case config.PlainAuth:
		return sasl.NewPlainClient(n.cfg.GetSMTPIdentity(), n.cfg.GetSMTPUsername(), n.cfg.GetSMTPPassword()), nil
	case config.AnonymousAuth:
		trace := n.cfg.GetSMTPIdentity()
		if trace == "" {
			trace = n.cfg.GetSMTPFromAddress()
		}
		return sasl.NewAnonymousClient(trace), nil
	case config.NoAuth, "":
		return nil, nil
	default:
		return nil, ErrSMTPBadAuthType.FormatError(n.cfg.GetSMTPAuthType())
	}
}

func (n *Notifier) notifyViaSMTP(notification *ExportNotification) error {
	template := n.cfg.GetSMTPTemplate()
	if template == nil || (template.Subject == "" && template.Body == "") {
		return nil
	}
	if len(n.cfg.GetSMTPTo()) == 0 {
		return ErrSMTPNoRecipients
	}

	auth, err := n.smtpAuth()
	if err != nil {
		return err
	}
	n.logger.WithField("authType", n.cfg.GetSMTPAuthType()).Trace("smtp authorization type")

	msg := n.BuildSMTPMessage(notification, template)
	return n.sendMail(n.cfg.GetSMTPURL(), auth, n.cfg.GetSMTPFromAddress(), n.cfg.GetSMTPTo(), msg)
}

// BuildSMTPMessage - the mail headers followed by the rendered body
func (n *Notifier) BuildSMTPMessage(notification *ExportNotification, template *config.EmailTemplate) *strings.Reader {
	mime := mimeMap{
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}

	fromAddress := fmt.Sprintf("From: %s", n.cfg.GetSMTPFromAddress())
	toAddress := fmt.Sprintf("To: %s", strings.Join(n.cfg.GetSMTPTo(), ", "))
	subject := fmt.Sprintf("Subject: %s", notification.UpdateTemplate(template.Subject))

	n.logger.Debugf("Sending email %s, %s, %s", fromAddress, toAddress, subject)

	msgArray := []string{
		fromAddress,
		toAddress,
		subject,
		mime.String(),
		"",
		notification.UpdateTemplate(template.Body),
	}
	return strings.NewReader(strings.Join(msgArray, "\n"))
}
