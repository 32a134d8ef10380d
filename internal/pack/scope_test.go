// SPDX-License-Identifier: MPL-2.0

package pack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScope(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		workspace bool
		packages  []string
		exclude   []string
		want      Scope
		wantErr   bool
	}{
		{name: "default", want: Scope{Kind: ScopeCurrent}},
		{name: "workspace", workspace: true, want: Scope{Kind: ScopeWorkspace}},
		{name: "workspace with excludes", workspace: true, exclude: []string{"a"}, want: Scope{Kind: ScopeWorkspace, Exclude: []string{"a"}}},
		{name: "packages", packages: []string{"a", "b"}, want: Scope{Kind: ScopePackages, Names: []string{"a", "b"}}},
		{name: "exclude without workspace", exclude: []string{"a"}, wantErr: true},
		{name: "packages with workspace", workspace: true, packages: []string{"a"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewScope(tt.workspace, tt.packages, tt.exclude)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrConflictingScope)
				require.ErrorIs(t, err, ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScopeMultiPackage(t *testing.T) {
	t.Parallel()

	assert.False(t, Scope{Kind: ScopeCurrent}.MultiPackage())
	assert.True(t, Scope{Kind: ScopeWorkspace}.MultiPackage())
	assert.True(t, Scope{Kind: ScopePackages}.MultiPackage())
	assert.Equal(t, "workspace", ScopeWorkspace.String())
}
