package output

import (
	"bytes"
	"encoding/json"
	"lddtopo/internal/engine/loadorder"
)

// EncodeJSON renders the result with two-space indentation and a trailing
// newline. Map keys are emitted sorted and HTML characters are left as is, so
// equal results always encode to equal bytes.
func EncodeJSON(r *loadorder.TopoSortResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
