// Package envelope wraps cell values in a fixed XML tag pair before they
// are sent to the translation model, so the model sees an unambiguous
// payload boundary, and unwraps the model's answer afterwards.
package envelope

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/prasdika/tabtrans/internal/table"
)

const (
	openTag  = "<text>"
	closeTag = "</text>"
)

// Encode wraps a value in the envelope. Missing values pass through
// unchanged. The payload is not escaped: a value containing the
// delimiter itself produces a malformed envelope, which Decode then
// falls back on.
func Encode(v table.Value) table.Value {
	if v.IsMissing() {
		return v
	}
	return table.NewValue(openTag + v.String + closeTag)
}

// Decode extracts the payload from an envelope. Missing values pass
// through unchanged. Any parse failure returns the input untouched;
// decoding never fails hard.
func Decode(v table.Value) table.Value {
	if v.IsMissing() {
		return v
	}

	dec := xml.NewDecoder(strings.NewReader(strings.TrimSpace(v.String)))
	var doc struct {
		Text string `xml:",chardata"`
	}
	if err := dec.Decode(&doc); err != nil {
		return v
	}
	// Content after the root element means the payload contained the
	// delimiter itself; treat the whole envelope as opaque.
	if _, err := dec.Token(); err != io.EOF {
		return v
	}
	return table.NewValue(doc.Text)
}
