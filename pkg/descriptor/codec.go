// SPDX-License-Identifier: MPL-2.0

package descriptor

import (
	"bytes"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Marshal serializes the manifest as wasmer.toml.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("unable to serialize the %s: %w", FileName, err)
	}
	return buf.Bytes(), nil
}

// Unmarshal parses wasmer.toml content.
func Unmarshal(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unable to parse the %s: %w", FileName, err)
	}
	return &m, nil
}
