// SPDX-License-Identifier: MPL-2.0

// Command cargo-wasmer packages Rust crates for the Wasmer registry.
package main

import cmd "github.com/cargo-wasmer/cargo-wasmer/cmd/cargo-wasmer"

func main() {
	cmd.Execute()
}
