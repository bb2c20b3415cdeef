package gogun

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/gogun/internal/form"
)

// MaxTags is the number of tags Mailgun accepts on a single message.
const MaxTags = 3

// ErrTooManyTags is returned by AddTag once MaxTags is exceeded.
var ErrTooManyTags = errors.New("too many tags")

// Message is an outbound email accumulated through its setter methods and
// delivered with Client.Send.
//
// A Message is not safe for concurrent mutation and should not be reused
// after a send: attachment readers are consumed by the send.
type Message struct {
	from     Address
	to       []Address
	cc       []Address
	bcc      []Address
	subject  string
	text     string
	html     string
	template string

	headers   map[string]string
	variables map[string]string

	tags         []string
	deliveryTime time.Time
	testMode     bool

	tracking       *bool
	trackingClicks *bool
	trackingOpens  *bool
	dkim           *bool
	requireTLS     bool

	attachments []filePart
	inlines     []filePart
}

type filePart struct {
	filename string
	reader   io.Reader
}

// NewMessage builds a Message with the required sender, subject, and
// recipients. Bodies, options, and attachments are added via setters.
func NewMessage(from Address, subject string, to ...Address) *Message {
	return &Message{
		from:    from,
		subject: subject,
		to:      to,
	}
}

// AddRecipient appends a To recipient.
func (m *Message) AddRecipient(to Address) {
	m.to = append(m.to, to)
}

// AddCC appends a carbon copy recipient.
func (m *Message) AddCC(cc Address) {
	m.cc = append(m.cc, cc)
}

// AddBCC appends a blind carbon copy recipient.
func (m *Message) AddBCC(bcc Address) {
	m.bcc = append(m.bcc, bcc)
}

// SetText sets the plain-text body.
func (m *Message) SetText(text string) {
	m.text = text
}

// SetHTML sets the HTML body.
func (m *Message) SetHTML(html string) {
	m.html = html
}

// SetTemplate selects a stored Mailgun template instead of an inline body.
func (m *Message) SetTemplate(name string) {
	m.template = name
}

// AddVariable attaches a template/event variable ("v:" field). Values are
// JSON-encoded; plain strings are passed through unquoted.
func (m *Message) AddVariable(name string, value any) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode variable %q: %w", name, err)
	}

	rendered := string(encoded)
	if len(rendered) > 0 && rendered[0] == '"' {
		if rendered, err = strconv.Unquote(rendered); err != nil {
			return fmt.Errorf("unquote variable %q: %w", name, err)
		}
	}

	if m.variables == nil {
		m.variables = map[string]string{}
	}
	m.variables[name] = rendered
	return nil
}

// AddHeader attaches a custom MIME header ("h:" field).
func (m *Message) AddHeader(name, value string) {
	if m.headers == nil {
		m.headers = map[string]string{}
	}
	m.headers[name] = value
}

// SetReplyTo sets the Reply-To header.
func (m *Message) SetReplyTo(addr Address) {
	m.AddHeader("Reply-To", addr.String())
}

// AddTag appends analytics tags ("o:tag"). Mailgun allows at most MaxTags.
func (m *Message) AddTag(tags ...string) error {
	if len(m.tags)+len(tags) > MaxTags {
		return ErrTooManyTags
	}
	m.tags = append(m.tags, tags...)
	return nil
}

// SetDeliveryTime schedules delivery ("o:deliverytime", RFC1123Z).
func (m *Message) SetDeliveryTime(t time.Time) {
	m.deliveryTime = t
}

// EnableTestMode asks Mailgun to accept but not deliver the message.
func (m *Message) EnableTestMode() {
	m.testMode = true
}

// SetTracking toggles open/click tracking for the message.
func (m *Message) SetTracking(enabled bool) {
	m.tracking = &enabled
}

// SetTrackingClicks toggles click tracking.
func (m *Message) SetTrackingClicks(enabled bool) {
	m.trackingClicks = &enabled
}

// SetTrackingOpens toggles open tracking.
func (m *Message) SetTrackingOpens(enabled bool) {
	m.trackingOpens = &enabled
}

// SetDKIM toggles DKIM signing.
func (m *Message) SetDKIM(enabled bool) {
	m.dkim = &enabled
}

// SetRequireTLS requires a TLS connection when delivering.
func (m *Message) SetRequireTLS(required bool) {
	m.requireTLS = required
}

// AddAttachment attaches a file. The reader is consumed on send.
func (m *Message) AddAttachment(filename string, r io.Reader) {
	m.attachments = append(m.attachments, filePart{filename: filename, reader: r})
}

// AddInline attaches an inline image referenced from the HTML body
// via "cid:<filename>".
func (m *Message) AddInline(filename string, r io.Reader) {
	m.inlines = append(m.inlines, filePart{filename: filename, reader: r})
}

type messageSpec struct {
	From    string   `validate:"required"`
	To      []string `validate:"required,min=1,dive,required"`
	Tags    []string `validate:"max=3"`
	Content string   `validate:"required"`
}

// validate performs the structural preflight before any network call.
func (m *Message) validate() error {
	content := m.text + m.html + m.template

	spec := messageSpec{
		From:    m.from.Email,
		To:      lo.Map(m.to, func(a Address, _ int) string { return a.Email }),
		Tags:    m.tags,
		Content: content,
	}
	if err := validate.Struct(spec); err != nil {
		return fmt.Errorf("invalid message: %w", err)
	}

	addrs := make([]Address, 0, 1+len(m.to)+len(m.cc)+len(m.bcc))
	addrs = append(addrs, m.from)
	addrs = append(addrs, m.to...)
	addrs = append(addrs, m.cc...)
	addrs = append(addrs, m.bcc...)

	for _, addr := range addrs {
		if addr.Name != "" && !reDisplayName.MatchString(addr.Name) {
			return fmt.Errorf("%w: %q", ErrInvalidDisplayName, addr.Name)
		}
		if !reAddress.MatchString(addr.Email) {
			return fmt.Errorf("%w: %q", ErrInvalidAddress, addr.Email)
		}
	}

	return nil
}

// payload renders the message as Mailgun form fields.
func (m *Message) payload() *form.Payload {
	p := form.New()

	p.Add("from", m.from.String())
	for _, a := range m.to {
		p.Add("to", a.String())
	}
	for _, a := range m.cc {
		p.Add("cc", a.String())
	}
	for _, a := range m.bcc {
		p.Add("bcc", a.String())
	}
	p.Add("subject", m.subject)

	if m.text != "" {
		p.Add("text", m.text)
	}
	if m.html != "" {
		p.Add("html", m.html)
	}
	if m.template != "" {
		p.Add("template", m.template)
	}

	for _, name := range sortedKeys(m.headers) {
		p.Add("h:"+name, m.headers[name])
	}
	for _, name := range sortedKeys(m.variables) {
		p.Add("v:"+name, m.variables[name])
	}

	for _, tag := range m.tags {
		p.Add("o:tag", tag)
	}
	if !m.deliveryTime.IsZero() {
		p.Add("o:deliverytime", m.deliveryTime.Format(time.RFC1123Z))
	}
	if m.testMode {
		p.Add("o:testmode", "yes")
	}
	if m.tracking != nil {
		p.Add("o:tracking", yesNo(*m.tracking))
	}
	if m.trackingClicks != nil {
		p.Add("o:tracking-clicks", yesNo(*m.trackingClicks))
	}
	if m.trackingOpens != nil {
		p.Add("o:tracking-opens", yesNo(*m.trackingOpens))
	}
	if m.dkim != nil {
		p.Add("o:dkim", yesNo(*m.dkim))
	}
	if m.requireTLS {
		p.Add("o:require-tls", "true")
	}

	for _, f := range m.attachments {
		p.AddFile("attachment", f.filename, f.reader)
	}
	for _, f := range m.inlines {
		p.AddFile("inline", f.filename, f.reader)
	}

	return p
}

func sortedKeys(m map[string]string) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
