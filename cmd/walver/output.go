package main

import (
	"encoding/json"
	"fmt"
	"io"
)

type rawJSONer interface {
	RawJSON() json.RawMessage
}

// printJSON writes v indented. Responses are printed from their raw body so
// fields the SDK does not model, or a list wrapped in an object, are shown
// as received. A body that is not JSON is printed as is.
func printJSON(w io.Writer, v any) error {
	if r, ok := v.(rawJSONer); ok && len(r.RawJSON()) > 0 && !json.Valid(r.RawJSON()) {
		_, err := fmt.Fprintln(w, string(r.RawJSON()))
		return err
	}

	b, err := json.MarshalIndent(rawOrValue(v), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func rawOrValue(v any) any {
	if r, ok := v.(rawJSONer); ok && len(r.RawJSON()) > 0 {
		return r.RawJSON()
	}
	return v
}
