package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/smtp"
	"net/textproto"
	"os"
	"strings"
)

// Message is one outbound email. HTML and Text are sent as
// multipart/alternative when both are set.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, m *Message) error
}

// SMTPMailer sends through a plain-auth SMTP relay (Gmail in production).
type SMTPMailer struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func NewSMTPMailerFromEnv() (*SMTPMailer, error) {
	m := &SMTPMailer{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
	if m.Port == "" {
		m.Port = "587"
	}
	if m.From == "" {
		m.From = m.Username
	}
	if m.Host == "" || m.Username == "" || m.Password == "" {
		return nil, errors.New("SMTP_HOST, SMTP_USERNAME and SMTP_PASSWORD must be set")
	}
	return m, nil
}

func (s *SMTPMailer) Send(ctx context.Context, m *Message) error {
	if len(m.To) == 0 {
		return errors.New("no recipients")
	}
	if m.From == "" {
		m.From = s.From
	}

	raw, err := BuildMessage(m)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	return smtp.SendMail(s.Host+":"+s.Port, auth, m.From, m.To, raw.Bytes())
}

// BuildMessage renders m as a MIME multipart/alternative message.
func BuildMessage(m *Message) (*bytes.Buffer, error) {
	var raw bytes.Buffer
	writer := multipart.NewWriter(&raw)
	boundary := writer.Boundary()

	headers := fmt.Sprintf("From: %s\r\n", m.From)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(m.To, ", "))
	headers += fmt.Sprintf("Subject: %s\r\n", m.Subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	headers += "\r\n"
	raw.WriteString(headers)

	if m.Text != "" {
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"text/plain; charset=UTF-8"},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(part)
		if _, err := qp.Write([]byte(m.Text)); err != nil {
			return nil, err
		}
		qp.Close()
	}

	if m.HTML != "" {
		part, err := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"text/html; charset=UTF-8"},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(part)
		if _, err := qp.Write([]byte(m.HTML)); err != nil {
			return nil, err
		}
		qp.Close()
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return &raw, nil
}
