// SPDX-License-Identifier: MPL-2.0

package pack

import "github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"

// ResolveTarget returns the package's only binary or cdylib target.
// Ambiguity is never resolved by guessing.
func ResolveTarget(pkg *cargo.Package) (cargo.Target, error) {
	var candidates []cargo.Target
	for _, t := range pkg.Targets {
		if t.IsPackageable() {
			candidates = append(candidates, t)
		}
	}

	switch len(candidates) {
	case 0:
		return cargo.Target{}, &NoPackageableTargetError{Package: pkg.Name}
	case 1:
		return candidates[0], nil
	default:
		return cargo.Target{}, &AmbiguousTargetError{Package: pkg.Name, Candidates: candidates}
	}
}
