package gogun

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Timestamp decodes the RFC1123-style "created_at" strings Mailgun returns
// on domains and suppression records.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC1123, time.RFC1123Z}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("unsupported timestamp %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC1123))
}

// EpochTime decodes the fractional Unix-epoch timestamps carried by events.
type EpochTime struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *EpochTime) UnmarshalJSON(data []byte) error {
	var epoch float64
	if err := json.Unmarshal(data, &epoch); err != nil {
		return err
	}

	sec, frac := math.Modf(epoch)
	t.Time = time.Unix(int64(sec), int64(frac*float64(time.Second))).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t EpochTime) MarshalJSON() ([]byte, error) {
	epoch := float64(t.UnixNano()) / float64(time.Second)
	return json.Marshal(epoch)
}

// Paging carries the cursor URLs Mailgun returns on list responses.
type Paging struct {
	Previous string `json:"previous"`
	First    string `json:"first"`
	Next     string `json:"next"`
	Last     string `json:"last"`
}
