// SPDX-License-Identifier: MPL-2.0

package publish

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargo-wasmer/cargo-wasmer/internal/pack"
	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
	"github.com/cargo-wasmer/cargo-wasmer/internal/process/processtest"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

func TestPublish(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		dryRun bool
		want   []string
	}{
		{"publish", false, []string{"publish"}},
		{"dry run", true, []string{"publish", "--dry-run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := processtest.NewRecorder()
			p := &Publisher{Runner: rec, DryRun: tt.dryRun}
			dir := types.FilesystemPath(t.TempDir())

			require.NoError(t, p.Publish(context.Background(), dir))

			calls := rec.Calls("publish")
			require.Len(t, calls, 1)
			assert.Equal(t, DefaultBinary, calls[0].Program)
			assert.Equal(t, tt.want, calls[0].Args)
			assert.Equal(t, dir.String(), calls[0].Dir)
		})
	}
}

func TestPublishFailures(t *testing.T) {
	t.Parallel()

	t.Run("exit code", func(t *testing.T) {
		t.Parallel()

		rec := processtest.NewRecorder().On("publish", processtest.Response{Status: process.Status{Code: 2}})
		err := (&Publisher{Runner: rec, WasmerBinary: "/usr/local/bin/wasmer"}).Publish(context.Background(), "bundle")
		require.ErrorIs(t, err, ErrPublishFailed)
		require.ErrorIs(t, err, pack.ErrPublish)
		assert.Contains(t, err.Error(), "exit code 2")
		assert.Equal(t, "/usr/local/bin/wasmer", rec.Invocations()[0].Program)
	})

	t.Run("signal", func(t *testing.T) {
		t.Parallel()

		rec := processtest.NewRecorder().On("publish", processtest.Response{Status: process.Status{Code: -1, Signaled: true}})
		err := (&Publisher{Runner: rec}).Publish(context.Background(), "bundle")
		var failed *PublishFailedError
		require.ErrorAs(t, err, &failed)
		assert.True(t, failed.Status.Signaled)
	})

	t.Run("not installed", func(t *testing.T) {
		t.Parallel()

		rec := processtest.NewRecorder().On("publish", processtest.Response{
			Err: &process.NotFoundError{Program: "wasmer", Err: os.ErrNotExist},
		})
		err := (&Publisher{Runner: rec}).Publish(context.Background(), "bundle")
		require.ErrorIs(t, err, process.ErrNotFound)
		require.ErrorIs(t, err, pack.ErrPublish)
	})
}

func TestShouldPublish(t *testing.T) {
	t.Parallel()

	assert.True(t, ShouldPublish(&cargo.Package{Table: cargo.ToolTable{Present: true, Key: cargo.LegacyTableKey}}))
	assert.False(t, ShouldPublish(&cargo.Package{Table: cargo.ToolTable{Err: cargo.ErrMetadataTableMissing}}))
}
