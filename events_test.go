package gogun

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListEvents(t *testing.T) {
	begin := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 2, 0, 0, 0, 0, time.UTC)

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/example.com/events", r.URL.Path)

		query := r.URL.Query()
		assert.Equal(t, begin.Format(time.RFC1123Z), query.Get("begin"))
		assert.Equal(t, end.Format(time.RFC1123Z), query.Get("end"))
		assert.Equal(t, "yes", query.Get("ascending"))
		assert.Equal(t, "25", query.Get("limit"))
		assert.Equal(t, "accepted OR delivered", query.Get("event"))
		assert.Equal(t, "bob@example.com", query.Get("recipient"))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"items": [{
				"id": "czsjqFATSlC3QtAK-C38nw",
				"event": "delivered",
				"timestamp": 1521472262.908181,
				"recipient": "bob@example.com",
				"delivery-status": {"code": 250, "message": "OK"}
			}],
			"paging": {"next": "", "previous": ""}
		}`)
	}))

	page, err := client.ListEvents(context.Background(), &ListEventsOptions{
		Begin:      begin,
		End:        end,
		Ascending:  true,
		Limit:      25,
		EventTypes: []string{"accepted", "delivered"},
		Filters:    map[string]string{"recipient": "bob@example.com"},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	event := page.Items[0]
	assert.Equal(t, "czsjqFATSlC3QtAK-C38nw", event.ID)
	assert.Equal(t, "delivered", event.Name)
	assert.Equal(t, "bob@example.com", event.Recipient)
	assert.Equal(t, time.Date(2018, time.March, 19, 14, 31, 2, 0, time.UTC), event.Timestamp.Time.Truncate(time.Second))

	// The fields not modeled on Event stay reachable through Raw.
	var detail struct {
		DeliveryStatus struct {
			Code int `json:"code"`
		} `json:"delivery-status"`
	}
	require.NoError(t, json.Unmarshal(event.Raw, &detail))
	assert.Equal(t, 250, detail.DeliveryStatus.Code)
}

func TestEventsPage_NextPage(t *testing.T) {
	var server *httptest.Server

	mux := http.NewServeMux()
	mux.HandleFunc("/v3/example.com/events", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"items": [{"id": "first", "event": "accepted", "timestamp": 1521472262.0}],
			"paging": {"next": %q}
		}`, server.URL+"/v3/example.com/events/pages/W3siYSI6IGZ")
	})
	mux.HandleFunc("/v3/example.com/events/pages/W3siYSI6IGZ", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items": [], "paging": {"next": ""}}`)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)

	creds, err := CredentialsWithBase(server.URL+"/v3", testAPIKey, testDomain)
	require.NoError(t, err)
	client := New(creds, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	page, err := client.ListEvents(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "first", page.Items[0].ID)

	next, err := page.NextPage(context.Background())
	require.NoError(t, err)
	assert.Empty(t, next.Items)

	_, err = next.NextPage(context.Background())
	assert.ErrorIs(t, err, ErrNoMorePages)

	_, err = next.PreviousPage(context.Background())
	assert.ErrorIs(t, err, ErrNoMorePages)
}
