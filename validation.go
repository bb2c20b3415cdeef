package gogun

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// AddressParts is the decomposition of a validated address.
type AddressParts struct {
	DisplayName string `json:"display_name"`
	LocalPart   string `json:"local_part"`
	Domain      string `json:"domain"`
}

// AddressValidation is the result of Mailgun's address validation service.
type AddressValidation struct {
	Address             string       `json:"address"`
	DidYouMean          string       `json:"did_you_mean"`
	IsDisposableAddress bool         `json:"is_disposable_address"`
	IsRoleAddress       bool         `json:"is_role_address"`
	IsValid             bool         `json:"is_valid"`
	MailboxVerification string       `json:"mailbox_verification"`
	Parts               AddressParts `json:"parts"`
	Reason              string       `json:"reason"`
}

// ValidateAddress asks Mailgun's validation service whether the address is
// deliverable. This is a remote check; for the local structural check use
// ParseAddress.
func (c *Client) ValidateAddress(ctx context.Context, address string) (*AddressValidation, error) {
	query := url.Values{"address": []string{address}}

	var out AddressValidation
	err := c.roundTrip(ctx, "gogun.ValidateAddress", http.MethodGet, c.apiURL("address", "validate"), query, nil, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

// ParsedAddressList splits a submitted address list into syntactically valid
// and unparseable entries.
type ParsedAddressList struct {
	Parsed      []string `json:"parsed"`
	Unparseable []string `json:"unparseable"`
}

// ParseAddressList submits a list of addresses to Mailgun's parse endpoint.
func (c *Client) ParseAddressList(ctx context.Context, addresses ...string) (*ParsedAddressList, error) {
	query := url.Values{"addresses": []string{strings.Join(addresses, ",")}}

	var out ParsedAddressList
	err := c.roundTrip(ctx, "gogun.ParseAddressList", http.MethodGet, c.apiURL("address", "parse"), query, nil, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}
