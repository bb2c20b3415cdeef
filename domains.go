package gogun

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shandysiswandi/gogun/internal/form"
)

// SpamAction controls what Mailgun does with detected spam on a domain.
type SpamAction string

// Spam actions accepted by the domains API.
const (
	SpamActionDisabled SpamAction = "disabled"
	SpamActionBlock    SpamAction = "block"
	SpamActionTag      SpamAction = "tag"
)

// Domain is a sending or receiving domain registered with Mailgun.
type Domain struct {
	Name         string    `json:"name"`
	CreatedAt    Timestamp `json:"created_at"`
	SMTPLogin    string    `json:"smtp_login"`
	SMTPPassword string    `json:"smtp_password"`
	SpamAction   string    `json:"spam_action"`
	State        string    `json:"state"`
	Type         string    `json:"type"`
	Wildcard     bool      `json:"wildcard"`
}

// DNSRecord is one DNS entry Mailgun expects for a domain. Valid is
// Mailgun's verification state, "valid" or "unknown".
type DNSRecord struct {
	Type     string `json:"record_type"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Priority string `json:"priority"`
	Valid    string `json:"valid"`
}

// DomainsPage is one page of the domains listing.
type DomainsPage struct {
	TotalCount int      `json:"total_count"`
	Items      []Domain `json:"items"`
}

// DomainDetails is a single domain plus the DNS records Mailgun expects.
type DomainDetails struct {
	Domain              Domain      `json:"domain"`
	ReceivingDNSRecords []DNSRecord `json:"receiving_dns_records"`
	SendingDNSRecords   []DNSRecord `json:"sending_dns_records"`
}

// ListDomainsOptions controls domains listing pagination.
type ListDomainsOptions struct {
	Limit int
	Skip  int
}

// ListDomains lists the domains on the account.
func (c *Client) ListDomains(ctx context.Context, opts *ListDomainsOptions) (*DomainsPage, error) {
	query := url.Values{}
	if opts != nil {
		if opts.Limit > 0 {
			query.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Skip > 0 {
			query.Set("skip", strconv.Itoa(opts.Skip))
		}
	}

	var out DomainsPage
	err := c.roundTrip(ctx, "gogun.ListDomains", http.MethodGet, c.apiURL("domains"), query, nil, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// GetDomain fetches a single domain with its DNS records.
func (c *Client) GetDomain(ctx context.Context, name string) (*DomainDetails, error) {
	var out DomainDetails
	err := c.roundTrip(ctx, "gogun.GetDomain", http.MethodGet, c.apiURL("domains", name), nil, nil, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// CreateDomainOptions parameterizes domain creation.
type CreateDomainOptions struct {
	// Name is the fully qualified domain to register.
	Name string
	// SMTPPassword is the password for the domain's default SMTP login.
	SMTPPassword string
	// SpamAction defaults to "disabled" when empty.
	SpamAction SpamAction
	// Wildcard accepts mail for subdomains when true.
	Wildcard bool
}

// CreateDomain registers a new domain.
func (c *Client) CreateDomain(ctx context.Context, opts CreateDomainOptions) (*DomainDetails, error) {
	p := form.New()
	p.Add("name", opts.Name)
	if opts.SMTPPassword != "" {
		p.Add("smtp_password", opts.SMTPPassword)
	}
	if opts.SpamAction != "" {
		p.Add("spam_action", string(opts.SpamAction))
	}
	if opts.Wildcard {
		p.Add("wildcard", "true")
	}

	var out DomainDetails
	err := c.roundTrip(ctx, "gogun.CreateDomain", http.MethodPost, c.apiURL("domains"), nil, p, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// DeleteDomain removes a domain from the account.
func (c *Client) DeleteDomain(ctx context.Context, name string) error {
	return c.roundTrip(ctx, "gogun.DeleteDomain", http.MethodDelete, c.apiURL("domains", name), nil, nil, nil)
}
