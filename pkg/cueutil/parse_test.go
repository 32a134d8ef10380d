// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Thing: {
	name:   string & !=""
	count?: int & >=0
}
`

type thing struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

func TestParseAndDecodeString(t *testing.T) {
	t.Parallel()

	t.Run("decodes JSON input", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecodeString[thing](testSchema, []byte(`{"name": "hello", "count": 2}`), "#Thing")
		if err != nil {
			t.Fatalf("ParseAndDecodeString() error = %v", err)
		}
		if result.Value.Name != "hello" || result.Value.Count != 2 {
			t.Errorf("decoded %+v", *result.Value)
		}
	})

	t.Run("schema violation names the field", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[thing](testSchema, []byte(`{"name": "hello", "count": -1}`), "#Thing", WithFilename("table"))
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.HasPrefix(err.Error(), "table:") || !strings.Contains(err.Error(), "count") {
			t.Errorf("error should mention source and field, got: %v", err)
		}
	})

	t.Run("closed definition rejects unknown fields", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[thing](testSchema, []byte(`{"name": "a", "colour": "red"}`), "#Thing")
		if err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("oversized input", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecodeString[thing](testSchema, []byte(`{"name": "hello"}`), "#Thing", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("expected size error, got %v", err)
		}
	})
}
