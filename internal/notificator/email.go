package notificator

import (
	"bytes"
	"fmt"
	"html/template"
	"net/mail"
	"net/smtp"
	"os"

	"github.com/frkn-dev/trialgate/pkg/logger"
	"github.com/google/uuid"
)

const (
	// EnvGmailUser names the environment variable holding the relay username.
	EnvGmailUser = "GMAIL_USER"
	// EnvGmailAppPassword names the environment variable holding the relay password.
	EnvGmailAppPassword = "GMAIL_APP_PASSWORD"
	// EnvFRKNHost names the environment variable holding the public host used in links.
	EnvFRKNHost = "FRKN_HOST"

	smtpHost = "smtp.gmail.com"
	smtpPort = 587

	emailSubject = "FRKN VPN Trial 🚀"
)

var activationTemplate = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>FRKN VPN Trial</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; margin: 0; padding: 0;">
<div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; padding: 20px; border-radius: 12px;">
    <h1 style="color: #1d4ed8; font-size: 24px; text-align: center;">Your trial is activated!</h1>
    <p>Hi!</p>
    <p>Your trial for <strong>FRKN</strong> has been activated 🎉</p>
    <p>Subscription details:</p>
    <p>
        <strong>ID:</strong> {{.SubID}}<br/>
        <strong>Link:</strong> <a href="{{.InfoURL}}">{{.InfoURL}}</a>
    </p>
    <a href="{{.InfoURL}}" style="display: inline-block; padding: 12px 24px; background-color: #1d4ed8; color: #ffffff; text-decoration: none; border-radius: 8px; font-weight: bold;">Open subscription</a>
    <p>Join our Telegram: <a href="https://t.me/frkn_org">@frkn_org</a></p>
    <div style="font-size: 12px; color: #9ca3af; text-align: center; margin-top: 20px;">
        <a href="https://t.me/frkn_support">Support</a><br/>
        Vive la résistance!<br/>
        © 2026 FRKN
    </div>
</div>
</body>
</html>
`))

// EmailNotificator sends activation emails through the gmail relay
// over authenticated STARTTLS. Credentials and the public host are
// read from the environment on every send.
type EmailNotificator struct {
	logger *logger.Logger
}

// NewEmailNotificator creates an email notificator.
func NewEmailNotificator(logger *logger.Logger) *EmailNotificator {
	return &EmailNotificator{logger: logger}
}

// SendActivation renders the activation message for the subscription
// and submits it to the relay. Any credential, address or SMTP error
// is returned to the caller.
func (e *EmailNotificator) SendActivation(to string, subID uuid.UUID) error {
	user := os.Getenv(EnvGmailUser)
	if user == "" {
		return fmt.Errorf("missing environment variable: %s", EnvGmailUser)
	}
	pass := os.Getenv(EnvGmailAppPassword)
	if pass == "" {
		return fmt.Errorf("missing environment variable: %s", EnvGmailAppPassword)
	}
	host := os.Getenv(EnvFRKNHost)
	if host == "" {
		return fmt.Errorf("missing environment variable: %s", EnvFRKNHost)
	}

	recipient, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	body, err := RenderActivationBody(host, subID)
	if err != nil {
		return err
	}

	msg := fmt.Sprintf(
		"From: FRKN <%s>\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		user,
		recipient.Address,
		emailSubject,
		body,
	)

	addr := fmt.Sprintf("%s:%d", smtpHost, smtpPort)
	auth := smtp.PlainAuth("", user, pass, smtpHost)
	if err := smtp.SendMail(addr, auth, user, []string{recipient.Address}, []byte(msg)); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// RenderActivationBody renders the HTML activation body containing the
// subscription id and its info URL.
func RenderActivationBody(host string, subID uuid.UUID) (string, error) {
	data := struct {
		SubID   string
		InfoURL string
	}{
		SubID:   subID.String(),
		InfoURL: fmt.Sprintf("%s/sub/info?id=%s", host, subID),
	}

	var buf bytes.Buffer
	if err := activationTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render activation body: %w", err)
	}
	return buf.String(), nil
}
