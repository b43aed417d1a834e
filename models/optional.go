package models

import (
	"bytes"
	"encoding/json"
)

// Optional distinguishes a JSON field that was absent from one that was
// explicitly null. Partial task updates need the distinction: sending
// "assignedTo": null unassigns, while omitting the field leaves the
// assignee alone.
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(data, []byte("null")) {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
