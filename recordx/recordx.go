// Package recordx implements the external record-construction collaborator
// spec.md §6 calls createRecordValueWithDefaultValues: given the list of
// declared fields a record's input did *not* supply, build a map-shaped
// value holding just their defaults, ready for the parser to overlay the
// fields that were actually present in the input on top of it.
package recordx

import (
	"fmt"

	"github.com/go-stream/typedjson/schema"
	"github.com/go-stream/typedjson/values"
)

// NewWithDefaults builds a record value pre-populated with the zero value
// of each field named in notProvided. pkg and name identify the record type
// for error messages only, mirroring the (package, recordName) identity
// spec.md §3 asks a RECORD descriptor to expose.
func NewWithDefaults(pkg, name string, rt schema.RecordType, notProvided []string) (*values.Map, error) {
	m := values.NewMap(rt)
	for _, fname := range notProvided {
		f, ok := rt.Field(fname)
		if !ok {
			return nil, fmt.Errorf("recordx: %s:%s has no declared field %q", pkg, name, fname)
		}
		m.PutForcefully(f.Name, values.Zero(f.Type))
	}
	return m, nil
}
