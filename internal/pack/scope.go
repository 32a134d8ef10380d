// SPDX-License-Identifier: MPL-2.0

package pack

import "fmt"

const (
	// ScopeCurrent selects the package enclosing the working directory.
	ScopeCurrent ScopeKind = iota
	// ScopeWorkspace selects every configured workspace member.
	ScopeWorkspace
	// ScopePackages selects the workspace members named explicitly.
	ScopePackages
)

type (
	// ScopeKind tags the selection policy.
	ScopeKind int

	// Scope is the package selection policy for one run.
	Scope struct {
		Kind ScopeKind
		// Exclude lists package names skipped in ScopeWorkspace.
		Exclude []string
		// Names lists the packages selected in ScopePackages.
		Names []string
	}
)

// NewScope reconciles the --workspace, --package and --exclude flags.
func NewScope(workspace bool, packages, exclude []string) (Scope, error) {
	switch {
	case workspace && len(packages) > 0:
		return Scope{}, fmt.Errorf("%w: --package cannot be combined with --workspace", ErrConflictingScope)
	case !workspace && len(exclude) > 0:
		return Scope{}, fmt.Errorf("%w: --exclude requires --workspace", ErrConflictingScope)
	case workspace:
		return Scope{Kind: ScopeWorkspace, Exclude: exclude}, nil
	case len(packages) > 0:
		return Scope{Kind: ScopePackages, Names: packages}, nil
	default:
		return Scope{Kind: ScopeCurrent}, nil
	}
}

// MultiPackage reports whether the scope may produce several bundles, in
// which case each bundle gets its own subdirectory.
func (s Scope) MultiPackage() bool {
	return s.Kind == ScopeWorkspace || s.Kind == ScopePackages
}

// String returns a label for logs.
func (k ScopeKind) String() string {
	switch k {
	case ScopeCurrent:
		return "current"
	case ScopeWorkspace:
		return "workspace"
	case ScopePackages:
		return "packages"
	default:
		return fmt.Sprintf("ScopeKind(%d)", int(k))
	}
}
