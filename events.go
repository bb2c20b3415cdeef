package gogun

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNoMorePages is returned by EventsPage.NextPage and PreviousPage when
// Mailgun supplied no cursor URL in that direction.
var ErrNoMorePages = errors.New("no more pages")

// Event is one entry from the events log. Only the common fields are typed;
// the full event body stays available through Raw.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"event"`
	Timestamp EpochTime `json:"timestamp"`
	Recipient string    `json:"recipient"`

	// Raw is the complete event object as returned by Mailgun.
	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON implements json.Unmarshaler, retaining the raw body.
func (e *Event) UnmarshalJSON(data []byte) error {
	type plain Event
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*e = Event(p)
	e.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// ListEventsOptions filters the events query.
type ListEventsOptions struct {
	// Begin and End bound the time range (RFC1123Z on the wire).
	Begin time.Time
	End   time.Time
	// Ascending reverses the default newest-first order.
	Ascending bool
	// Limit caps the page size; Mailgun's maximum is 300.
	Limit int
	// EventTypes filters by event name, OR-combined ("accepted OR failed").
	EventTypes []string
	// Filters adds raw field filters (e.g. "recipient": "bob@example.com").
	Filters map[string]string
}

func (o *ListEventsOptions) query() url.Values {
	query := url.Values{}
	if o == nil {
		return query
	}

	if !o.Begin.IsZero() {
		query.Set("begin", o.Begin.Format(time.RFC1123Z))
	}
	if !o.End.IsZero() {
		query.Set("end", o.End.Format(time.RFC1123Z))
	}
	if o.Ascending {
		query.Set("ascending", "yes")
	}
	if o.Limit > 0 {
		query.Set("limit", strconv.Itoa(o.Limit))
	}
	if len(o.EventTypes) > 0 {
		query.Set("event", strings.Join(o.EventTypes, " OR "))
	}
	for name, value := range o.Filters {
		query.Set(name, value)
	}

	return query
}

// EventsPage is one page of the events log plus the cursors to move through
// the rest of it.
type EventsPage struct {
	Items  []Event
	Paging Paging

	client *Client
}

type eventsEnvelope struct {
	Items  []Event `json:"items"`
	Paging Paging  `json:"paging"`
}

// ListEvents fetches the first page of the domain's event log.
func (c *Client) ListEvents(ctx context.Context, opts *ListEventsOptions) (*EventsPage, error) {
	return c.eventsAt(ctx, "gogun.ListEvents", c.domainURL("events"), opts.query())
}

// NextPage follows the next-page cursor. Note that Mailgun always supplies a
// next URL; the page at the end of the log simply comes back empty.
func (p *EventsPage) NextPage(ctx context.Context) (*EventsPage, error) {
	if p.Paging.Next == "" {
		return nil, ErrNoMorePages
	}
	return p.client.eventsAt(ctx, "gogun.ListEvents.next", p.Paging.Next, nil)
}

// PreviousPage follows the previous-page cursor.
func (p *EventsPage) PreviousPage(ctx context.Context) (*EventsPage, error) {
	if p.Paging.Previous == "" {
		return nil, ErrNoMorePages
	}
	return p.client.eventsAt(ctx, "gogun.ListEvents.previous", p.Paging.Previous, nil)
}

func (c *Client) eventsAt(ctx context.Context, op, rawURL string, query url.Values) (*EventsPage, error) {
	var envelope eventsEnvelope
	if err := c.roundTrip(ctx, op, http.MethodGet, rawURL, query, nil, &envelope); err != nil {
		return nil, err
	}

	return &EventsPage{
		Items:  envelope.Items,
		Paging: envelope.Paging,
		client: c,
	}, nil
}
