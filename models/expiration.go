package models

import (
	"encoding/json"
	"time"
)

// ISO8601Millis is the layout expirations are transmitted in, always UTC with
// millisecond precision (e.g. 2025-01-31T12:00:00.000Z).
const ISO8601Millis = "2006-01-02T15:04:05.000Z"

// Expiration is the expiry of a verification link. It is either a caller
// supplied ISO-8601 string, passed through as-is, or a time.Time which is
// normalized to ISO8601Millis before transmission.
type Expiration struct {
	raw  string
	at   time.Time
	time bool
}

// ExpiresAt builds an Expiration from a time value.
func ExpiresAt(t time.Time) Expiration {
	return Expiration{at: t, time: true}
}

// ExpiresAtString builds an Expiration from an ISO-8601 string.
func ExpiresAtString(s string) Expiration {
	return Expiration{raw: s}
}

// String returns the wire representation.
func (e Expiration) String() string {
	if e.time {
		return e.at.UTC().Format(ISO8601Millis)
	}
	return e.raw
}

// Time returns the time value when the expiration was built from one.
func (e Expiration) Time() (time.Time, bool) {
	return e.at, e.time
}

func (e Expiration) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Expiration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*e = ExpiresAtString(s)
	return nil
}
