package service

import (
	"aime-backend/config"
	"aime-backend/internal/util"
	"crypto/tls"
	"fmt"
	"html"
	"time"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// Mailer 发送通知邮件
type Mailer interface {
	SendAsync(to, subject, body string)
}

type EmailService struct {
	smtpHost    string
	smtpPort    int
	username    string
	password    string
	frontendURL string
}

func NewEmailService(cfg config.Config) *EmailService {
	return &EmailService{
		smtpHost:    cfg.SMTPHost,
		smtpPort:    cfg.SMTPPort,
		username:    cfg.SMTPUsername,
		password:    cfg.SMTPPassword,
		frontendURL: cfg.FrontendURL,
	}
}

// SendAsync 异步发送邮件，失败只记录日志
func (s *EmailService) SendAsync(to, subject, body string) {
	go func() {
		if err := s.send(to, subject, body); err != nil {
			util.Logger.Error("异步发送邮件失败", zap.Error(err), zap.String("to", to))
		}
	}()
}

func (s *EmailService) send(to, subject, body string) error {
	util.Logger.Info("开始发送邮件",
		zap.String("to", to),
		zap.String("subject", subject))

	m := mail.NewMessage()
	m.SetHeader("From", s.username)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", s.render(body))

	d := mail.NewDialer(s.smtpHost, s.smtpPort, s.username, s.password)
	d.Timeout = 20 * time.Second
	d.SSL = s.smtpPort == 465
	d.TLSConfig = &tls.Config{ServerName: s.smtpHost}

	if err := d.DialAndSend(m); err != nil {
		util.Logger.Error("发送邮件失败", zap.Error(err))
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	util.Logger.Info("邮件发送成功", zap.String("to", to))
	return nil
}

func (s *EmailService) render(body string) string {
	return fmt.Sprintf("<p>%s</p><p><a href=\"%s/dashboard\">AIME</a></p>", html.EscapeString(body), s.frontendURL)
}
