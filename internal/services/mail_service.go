package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"civicos/internal/config"

	"github.com/rs/zerolog/log"
)

// Mailer sends transactional email.
type Mailer interface {
	SendPetitionGoalReached(email, username, title string, signatures int, link string)
}

type MailService struct {
	cfg     config.SMTPConfig
	Enabled bool
	send    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailService(cfg config.SMTPConfig) *MailService {
	enabled := cfg.Enabled()
	if !enabled {
		log.Warn().Msg("mail service disabled: missing SMTP settings")
	}
	return &MailService{cfg: cfg, Enabled: enabled, send: smtp.SendMail}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		addr := fmt.Sprintf("%s:%s", s.cfg.Host, s.cfg.Port)

		mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: CivicOS <%s>\r\n"+
			"Subject: %s\r\n"+
			"%s\r\n%s", strings.Join(to, ","), s.cfg.From, subject, mime, body))

		if err := s.send(addr, auth, s.cfg.From, to, msg); err != nil {
			log.Error().Err(err).Strs("to", to).Msg("failed to send email")
			return
		}
		log.Info().Strs("to", to).Str("subject", subject).Msg("email sent")
	}()
}

var goalReachedTmpl = template.Must(template.New("goal").Parse(`<p>Hi {{.Username}},</p>
<p>Your petition <strong>{{.Title}}</strong> has reached its goal with {{.Signatures}} signatures.</p>
<p><a href="{{.Link}}">View the petition</a></p>`))

func renderGoalReached(username, title string, signatures int, link string) (string, error) {
	var buf bytes.Buffer
	err := goalReachedTmpl.Execute(&buf, map[string]interface{}{
		"Username":   username,
		"Title":      title,
		"Signatures": signatures,
		"Link":       link,
	})
	return buf.String(), err
}

func (s *MailService) SendPetitionGoalReached(email, username, title string, signatures int, link string) {
	body, err := renderGoalReached(username, title, signatures, link)
	if err != nil {
		log.Error().Err(err).Msg("render petition goal email")
		return
	}
	s.sendAsync([]string{email}, "Your petition reached its goal: "+title, body)
}
