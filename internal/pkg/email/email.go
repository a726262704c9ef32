package email

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/modelsnapper/snapper_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendConsentRequested notifies a model that a business asked to use their
// likeness.
func (s *Service) SendConsentRequested(to, businessName, message string) error {
	subject := "New consent request - ModelSnapper"
	note := ""
	if message != "" {
		note = fmt.Sprintf(`<p style="background-color: #f3f4f6; padding: 10px;">%s</p>`, message)
	}
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">New consent request</h2>
        <p>Hi,</p>
        <p><strong>%s</strong> would like permission to feature you in their garment renders.</p>
        %s
        <p>Sign in to your dashboard to approve or reject the request.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This email was sent automatically, please do not reply.</p>
    </div>
</body>
</html>
`, businessName, note)

	return s.sendHTML(to, subject, body)
}

// SendConsentDecided notifies a business that the model decided.
func (s *Service) SendConsentDecided(to, modelName, status string) error {
	subject := "Consent request update - ModelSnapper"
	verb := "approved"
	if status != "APPROVED" {
		verb = "rejected"
	}
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">Consent request %s</h2>
        <p>Hi,</p>
        <p><strong>%s</strong> has %s your consent request.</p>
        <p>Sign in to your dashboard to see the details.</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">This email was sent automatically, please do not reply.</p>
    </div>
</body>
</html>
`, verb, modelName, verb)

	return s.sendHTML(to, subject, body)
}

func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}

// ValidDomain reports whether the domain can receive mail: it must carry an
// MX record, or at least resolve at all (A/AAAA fallback per RFC 5321).
func ValidDomain(domain string) bool {
	domain = strings.TrimSpace(strings.ToLower(domain))
	if domain == "" || strings.ContainsAny(domain, " @/") || !strings.Contains(domain, ".") {
		return false
	}

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := net.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}
