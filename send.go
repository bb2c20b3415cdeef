package gogun

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/shandysiswandi/gogun/internal/form"
)

// SendResponse is Mailgun's acknowledgment of an accepted message.
type SendResponse struct {
	// ID is the queued message id, e.g. "<20210212..@example.com>".
	ID string `json:"id"`
	// Message is Mailgun's human-readable status, usually "Queued. Thank you.".
	Message string `json:"message"`
}

// Send validates the message and posts it to the per-domain messages
// endpoint. Messages with attachments or inline images go out as
// multipart/form-data, everything else as application/x-www-form-urlencoded.
func (c *Client) Send(ctx context.Context, m *Message) (*SendResponse, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	var out SendResponse
	err := c.roundTrip(ctx, "gogun.Send", http.MethodPost, c.domainURL("messages"), nil, m.payload(), &out)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "message queued", "domain", c.creds.domain, "id", out.ID)
	return &out, nil
}

// SendMIME posts a pre-built MIME message to the messages.mime endpoint.
// The reader must produce a complete RFC2822 message including headers.
func (c *Client) SendMIME(ctx context.Context, to []Address, mime io.Reader) (*SendResponse, error) {
	if len(to) == 0 {
		return nil, fmt.Errorf("%w: no recipients", ErrInvalidAddress)
	}

	p := form.New()
	for _, a := range to {
		if !reAddress.MatchString(a.Email) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, a.Email)
		}
		p.Add("to", a.String())
	}
	p.AddFile("message", "message.mime", mime)

	var out SendResponse
	err := c.roundTrip(ctx, "gogun.SendMIME", http.MethodPost, c.domainURL("messages.mime"), nil, p, &out)
	if err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "mime message queued", "domain", c.creds.domain, "id", out.ID)
	return &out, nil
}
