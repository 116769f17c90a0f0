// Package stats fetches the pre-aggregated dashboard snapshot produced by the
// get_dashboard_stats procedure.
package stats

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrEmptyPayload is returned when the procedure answered with nothing usable
var ErrEmptyPayload = errors.New("empty stats payload")

// DayStat is one entry of the per-day breakdown
type DayStat struct {
	Date         string `json:"date"`
	Interactions int    `json:"interactions"`
	Appointments int    `json:"appointments"`
}

// Snapshot is the aggregated dashboard summary for one tenant
type Snapshot struct {
	TotalInteractions int             `json:"total_interactions"`
	TotalAppointments int             `json:"total_appointments"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalMessages     int             `json:"total_messages"`
	PerDay            []DayStat       `json:"per_day"`
}

// Zero is the snapshot rendered when the procedure could not be reached
func Zero() Snapshot {
	return Snapshot{TotalRevenue: decimal.Zero, PerDay: []DayStat{}}
}

// Decode normalises a procedure result into a Snapshot. Transports deliver
// either JSON text (string, []byte, json.RawMessage, possibly a JSON string
// wrapping the object) or an already decoded value such as map[string]any.
func Decode(raw any) (*Snapshot, error) {
	switch v := raw.(type) {
	case nil:
		return nil, ErrEmptyPayload
	case *Snapshot:
		if v == nil {
			return nil, ErrEmptyPayload
		}
		return normalise(*v), nil
	case Snapshot:
		return normalise(v), nil
	case string:
		return decodeText([]byte(v), true)
	case []byte:
		return decodeText(v, true)
	case json.RawMessage:
		return decodeText(v, true)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode stats payload: %w", err)
		}
		return decodeObject(b)
	}
}

func decodeText(b []byte, unwrap bool) (*Snapshot, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, ErrEmptyPayload
	}
	if b[0] == '"' {
		if !unwrap {
			return nil, fmt.Errorf("decode stats payload: nested JSON string")
		}
		var inner string
		if err := json.Unmarshal(b, &inner); err != nil {
			return nil, fmt.Errorf("decode stats payload: %w", err)
		}
		return decodeText([]byte(inner), false)
	}
	return decodeObject(b)
}

func decodeObject(b []byte) (*Snapshot, error) {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil, ErrEmptyPayload
	}
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode stats payload: %w", err)
	}
	return normalise(s), nil
}

func normalise(s Snapshot) *Snapshot {
	if s.PerDay == nil {
		s.PerDay = []DayStat{}
	}
	return &s
}
