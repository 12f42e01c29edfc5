package handlers

import "encoding/json"

// Optional records whether a JSON field was present and whether it was
// null, which plain pointers cannot tell apart. PATCH bodies rely on it.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// Present is true when the field carried a non-null value
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}
