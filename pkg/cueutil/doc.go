// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared CUE validate-and-decode flow used for the
// tool's own config file and for the [package.metadata.wasmer] table that Cargo
// reports as JSON (JSON is valid CUE, so both go through the same path):
//
//  1. Compile the embedded schema
//  2. Compile user data and unify with the schema definition
//  3. Validate and decode to a Go struct
//
// # Usage
//
//	//go:embed table_schema.cue
//	var schema []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    schema,
//	    rawJSON,
//	    "#Wasmer",
//	    cueutil.WithFilename("[package.metadata.wasmer]"),
//	)
//	if err != nil {
//	    return nil, err // carries the offending field path
//	}
//	return result.Value, nil
package cueutil
