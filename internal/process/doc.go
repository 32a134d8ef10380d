// SPDX-License-Identifier: MPL-2.0

// Package process is the only place that starts external programs (cargo and
// the wasmer CLI). Everything else talks to a Runner so the resolution and
// bundling logic can be exercised with a scripted fake.
package process
