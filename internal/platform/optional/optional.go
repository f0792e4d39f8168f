// Package optional distingue "campo ausente" de "campo en null" en bodies PATCH.
package optional

import "encoding/json"

// Field queda con Set=false si la clave no vino; Set=true y Value=nil si vino null.
type Field[T any] struct {
	Set   bool
	Value *T
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if string(b) == "null" {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}
