package jtext_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/creachadair/jtext"
)

// benchInput returns a standard JSON document with n records.
func benchInput(n int) []byte {
	var sb strings.Builder
	sb.WriteString(`{"records": [`)
	for i := range n {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, `{"id": %d, "name": "record \"%d\"", "score": %d.25, "tags": ["a", "b\tc"], "ok": %v, "next": null}`,
			i, i, i, i%2 == 0)
	}
	sb.WriteString(`]}`)
	return []byte(sb.String())
}

func BenchmarkReader(b *testing.B) {
	input := benchInput(2000)
	b.Logf("Benchmark input: %d bytes", len(input))

	b.Run("Decoder", func(b *testing.B) {
		for b.Loop() {
			dec := json.NewDecoder(bytes.NewReader(input))
			for {
				_, err := dec.Token()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})

	b.Run("Reader", func(b *testing.B) {
		for b.Loop() {
			r := jtext.NewReader(bytes.NewReader(input))
			for {
				err := r.Next()
				if err == io.EOF {
					break
				} else if err != nil {
					b.Fatalf("Unexpected error: %v", err)
				}
			}
		}
	})
}

func BenchmarkWriter(b *testing.B) {
	input := benchInput(2000)

	b.Run("Compact", func(b *testing.B) {
		for b.Loop() {
			w := jtext.NewWriter(io.Discard)
			if err := w.WriteAll(jtext.NewReader(bytes.NewReader(input)), false); err != nil {
				b.Fatalf("WriteAll: %v", err)
			}
			w.Close()
		}
	})

	b.Run("Indented", func(b *testing.B) {
		for b.Loop() {
			w := jtext.NewWriter(io.Discard)
			w.SetFormatting(jtext.FormatIndented)
			if err := w.WriteAll(jtext.NewReader(bytes.NewReader(input)), false); err != nil {
				b.Fatalf("WriteAll: %v", err)
			}
			w.Close()
		}
	})

	b.Run("JSONIndent", func(b *testing.B) {
		for b.Loop() {
			var buf bytes.Buffer
			if err := json.Indent(&buf, input, "", "  "); err != nil {
				b.Fatalf("Indent: %v", err)
			}
		}
	})
}
