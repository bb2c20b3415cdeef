package form

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Payload accumulates form fields and file parts for one API request.
//
// Field order is preserved; Mailgun treats repeated keys (multiple "to"
// recipients, multiple "o:tag" values) as lists.
type Payload struct {
	fields []field
	files  []filePart
}

type field struct {
	key   string
	value string
}

type filePart struct {
	key      string
	filename string
	reader   io.Reader
}

// New returns an empty Payload.
func New() *Payload {
	return &Payload{}
}

// Add appends a form field. Keys may repeat.
func (p *Payload) Add(key, value string) {
	p.fields = append(p.fields, field{key: key, value: value})
}

// AddFile appends a file part. The reader is consumed by Encode.
func (p *Payload) AddFile(key, filename string, r io.Reader) {
	p.files = append(p.files, filePart{key: key, filename: filename, reader: r})
}

// Encode renders the payload body and its Content-Type. A payload without
// file parts is urlencoded; one with files becomes multipart/form-data with
// per-file content types sniffed from the file bytes.
func (p *Payload) Encode() (io.Reader, string, error) {
	if len(p.files) == 0 {
		return strings.NewReader(p.urlencode()), "application/x-www-form-urlencoded", nil
	}
	return p.multipart()
}

func (p *Payload) urlencode() string {
	var sb strings.Builder
	for i, f := range p.fields {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(f.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(f.value))
	}
	return sb.String()
}

func (p *Payload) multipart() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range p.fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", f.key, err)
		}
	}

	for _, f := range p.files {
		data, err := io.ReadAll(f.reader)
		if err != nil {
			return nil, "", fmt.Errorf("read file %q: %w", f.filename, err)
		}

		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.key, f.filename))
		header.Set("Content-Type", mimetype.Detect(data).String())

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("create part %q: %w", f.filename, err)
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", fmt.Errorf("write part %q: %w", f.filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
