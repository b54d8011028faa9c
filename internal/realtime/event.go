package realtime

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	TableFlights       = "flights"
	TableBookings      = "bookings"
	TableNotifications = "notifications"
)

const (
	OpInsert = "INSERT"
	OpUpdate = "UPDATE"
	OpDelete = "DELETE"
)

// Row is a changed row as emitted by the notify trigger.
type Row map[string]any

// Event is one row change. New is empty for deletes, Old is empty for inserts.
type Event struct {
	Table string `json:"table"`
	Type  string `json:"type"`
	New   Row    `json:"new,omitempty"`
	Old   Row    `json:"old,omitempty"`
}

// ParseEvent decodes a trigger payload. Numbers are kept as json.Number so
// ids compare exactly.
func ParseEvent(payload []byte) (Event, error) {
	var ev Event
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&ev); err != nil {
		return Event{}, fmt.Errorf("decode row change: %w", err)
	}
	if ev.Table == "" || ev.Type == "" {
		return Event{}, fmt.Errorf("decode row change: missing table or type")
	}
	return ev, nil
}

// Filter selects events of one table, optionally where Column equals Value
// on the new row (or the old row for deletes).
type Filter struct {
	Table  string
	Column string
	Value  string
}

func (f Filter) Validate() error {
	switch f.Table {
	case TableFlights, TableBookings, TableNotifications:
	default:
		return fmt.Errorf("unknown table %q", f.Table)
	}
	if (f.Column == "") != (f.Value == "") {
		return fmt.Errorf("column and value must be set together")
	}
	return nil
}

func (f Filter) Match(ev Event) bool {
	if ev.Table != f.Table {
		return false
	}
	if f.Column == "" {
		return true
	}
	row := ev.New
	if row == nil {
		row = ev.Old
	}
	v, ok := row[f.Column]
	if !ok || v == nil {
		return false
	}
	return fmt.Sprint(v) == f.Value
}
