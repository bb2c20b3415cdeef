package gogun

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shandysiswandi/gogun/internal/form"
)

// Bounce is a permanently failing recipient on the domain's bounce list.
type Bounce struct {
	Address   string    `json:"address"`
	Code      string    `json:"code"`
	Error     string    `json:"error"`
	CreatedAt Timestamp `json:"created_at"`
}

// Complaint is a recipient who marked mail from the domain as spam.
type Complaint struct {
	Address   string    `json:"address"`
	CreatedAt Timestamp `json:"created_at"`
}

// Unsubscribe is a recipient who opted out, optionally per tag.
type Unsubscribe struct {
	Address   string    `json:"address"`
	Tags      []string  `json:"tags"`
	CreatedAt Timestamp `json:"created_at"`
}

// BouncesPage is one page of the domain's bounce list.
type BouncesPage struct {
	Items  []Bounce `json:"items"`
	Paging Paging   `json:"paging"`
}

// ComplaintsPage is one page of the domain's complaint list.
type ComplaintsPage struct {
	Items  []Complaint `json:"items"`
	Paging Paging      `json:"paging"`
}

// UnsubscribesPage is one page of the domain's unsubscribe list.
type UnsubscribesPage struct {
	Items  []Unsubscribe `json:"items"`
	Paging Paging        `json:"paging"`
}

// ListOptions controls suppression list pagination.
type ListOptions struct {
	Limit int
}

func (o *ListOptions) query() url.Values {
	query := url.Values{}
	if o != nil && o.Limit > 0 {
		query.Set("limit", strconv.Itoa(o.Limit))
	}
	return query
}

// ListBounces lists the domain's bounced addresses.
func (c *Client) ListBounces(ctx context.Context, opts *ListOptions) (*BouncesPage, error) {
	var out BouncesPage
	err := c.roundTrip(ctx, "gogun.ListBounces", http.MethodGet, c.domainURL("bounces"), opts.query(), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBounce fetches a single bounce record. A missing record satisfies
// errors.Is(err, ErrNotFound).
func (c *Client) GetBounce(ctx context.Context, address string) (*Bounce, error) {
	var out Bounce
	err := c.roundTrip(ctx, "gogun.GetBounce", http.MethodGet, c.domainURL("bounces", address), nil, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddBounce inserts an address into the bounce list. Code and errMsg are
// optional; Mailgun defaults the code to 550.
func (c *Client) AddBounce(ctx context.Context, address, code, errMsg string) error {
	p := form.New()
	p.Add("address", address)
	if code != "" {
		p.Add("code", code)
	}
	if errMsg != "" {
		p.Add("error", errMsg)
	}

	return c.roundTrip(ctx, "gogun.AddBounce", http.MethodPost, c.domainURL("bounces"), nil, p, nil)
}

// DeleteBounce removes an address from the bounce list.
func (c *Client) DeleteBounce(ctx context.Context, address string) error {
	return c.roundTrip(ctx, "gogun.DeleteBounce", http.MethodDelete, c.domainURL("bounces", address), nil, nil, nil)
}

// ListComplaints lists the domain's spam complaints.
func (c *Client) ListComplaints(ctx context.Context, opts *ListOptions) (*ComplaintsPage, error) {
	var out ComplaintsPage
	err := c.roundTrip(ctx, "gogun.ListComplaints", http.MethodGet, c.domainURL("complaints"), opts.query(), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddComplaint inserts an address into the complaint list.
func (c *Client) AddComplaint(ctx context.Context, address string) error {
	p := form.New()
	p.Add("address", address)

	return c.roundTrip(ctx, "gogun.AddComplaint", http.MethodPost, c.domainURL("complaints"), nil, p, nil)
}

// DeleteComplaint removes an address from the complaint list.
func (c *Client) DeleteComplaint(ctx context.Context, address string) error {
	return c.roundTrip(ctx, "gogun.DeleteComplaint", http.MethodDelete, c.domainURL("complaints", address), nil, nil, nil)
}

// ListUnsubscribes lists the domain's unsubscribed addresses.
func (c *Client) ListUnsubscribes(ctx context.Context, opts *ListOptions) (*UnsubscribesPage, error) {
	var out UnsubscribesPage
	err := c.roundTrip(ctx, "gogun.ListUnsubscribes", http.MethodGet, c.domainURL("unsubscribes"), opts.query(), nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AddUnsubscribe inserts an address into the unsubscribe list. An empty tag
// unsubscribes from everything; Mailgun models that as the "*" tag.
func (c *Client) AddUnsubscribe(ctx context.Context, address, tag string) error {
	p := form.New()
	p.Add("address", address)
	if tag != "" {
		p.Add("tag", tag)
	}

	return c.roundTrip(ctx, "gogun.AddUnsubscribe", http.MethodPost, c.domainURL("unsubscribes"), nil, p, nil)
}

// DeleteUnsubscribe removes an address from the unsubscribe list.
func (c *Client) DeleteUnsubscribe(ctx context.Context, address string) error {
	return c.roundTrip(ctx, "gogun.DeleteUnsubscribe", http.MethodDelete, c.domainURL("unsubscribes", address), nil, nil, nil)
}
