// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers cover environment variables (MustSetenv, MustUnsetenv, ClearToolEnv),
// the working directory (MustChdir) and fixture files (MustWriteFile,
// WriteCrate).
package testutil
