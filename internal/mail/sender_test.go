package mail

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	netmail "net/mail"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessageMultipart(t *testing.T) {
	raw, err := buildMessage("Atelier <atelier@example.com>", Message{
		To:      "visitor@example.com",
		Subject: "Message reçu",
		Text:    "Bonjour Zoé",
		HTML:    "<p>Bonjour Zoé</p>",
	}, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	msg, err := netmail.ReadMessage(strings.NewReader(string(raw)))
	require.NoError(t, err)

	subject, err := new(mime.WordDecoder).DecodeHeader(msg.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Message reçu", subject)
	assert.Equal(t, "visitor@example.com", msg.Header.Get("To"))

	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)

	mr := multipart.NewReader(msg.Body, params["boundary"])
	var bodies []string
	for {
		p, err := mr.NextRawPart()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		b, err := io.ReadAll(quotedprintable.NewReader(p))
		require.NoError(t, err)
		bodies = append(bodies, string(b))
	}
	assert.Equal(t, []string{"Bonjour Zoé", "<p>Bonjour Zoé</p>"}, bodies)
}

func TestBuildMessagePlain(t *testing.T) {
	raw, err := buildMessage("a@example.com", Message{To: "b@example.com", Subject: "hi", Text: "plain"}, time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Content-Type: text/plain; charset=UTF-8")
	assert.NotContains(t, string(raw), "multipart")
}

func TestClassify(t *testing.T) {
	err := classify("MAIL FROM", &textproto.Error{Code: 535, Msg: "5.7.8 Username and Password not accepted"})
	assert.ErrorIs(t, err, ErrAuth)

	err = classify("RCPT TO", &textproto.Error{Code: 550, Msg: "no such user"})
	assert.NotErrorIs(t, err, ErrAuth)
	var tp *textproto.Error
	assert.ErrorAs(t, err, &tp)
}

func TestSendWithoutCredentials(t *testing.T) {
	s := NewSMTPSender(testMailConfig(""))
	assert.ErrorIs(t, s.Send(t.Context(), Message{To: "x@example.com"}), ErrNotConfigured)
}
