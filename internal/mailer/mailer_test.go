package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage(t *testing.T) {
	m := &Message{
		From:    "alerts@cubstechnical.com",
		To:      []string{"ops@cubstechnical.com", "hr@cubstechnical.com"},
		Subject: "Visa Expiry Alert",
		Text:    "3 visas expiring soon",
		HTML:    "<p>3 visas expiring soon</p>",
	}

	raw, err := BuildMessage(m)
	require.NoError(t, err)
	s := raw.String()

	assert.Contains(t, s, "From: alerts@cubstechnical.com\r\n")
	assert.Contains(t, s, "To: ops@cubstechnical.com, hr@cubstechnical.com\r\n")
	assert.Contains(t, s, "Subject: Visa Expiry Alert\r\n")
	assert.Contains(t, s, "MIME-Version: 1.0\r\n")
	assert.Contains(t, s, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, s, "Content-Type: text/plain; charset=UTF-8")
	assert.Contains(t, s, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, s, "3 visas expiring soon")
	assert.Contains(t, s, "<p>3 visas expiring soon</p>")
}

func TestBuildMessageHTMLOnly(t *testing.T) {
	m := &Message{
		From:    "alerts@cubstechnical.com",
		To:      []string{"ops@cubstechnical.com"},
		Subject: "Alert",
		HTML:    "<table></table>",
	}

	raw, err := BuildMessage(m)
	require.NoError(t, err)
	s := raw.String()

	assert.NotContains(t, s, "text/plain")
	assert.Contains(t, s, "text/html")
}
