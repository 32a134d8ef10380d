// SPDX-License-Identifier: MPL-2.0

package pack

import (
	_ "crypto/sha256" // registers sha256 for go-digest
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/descriptor"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

const dirPerm = 0o755

// BundleReport describes an assembled bundle.
type BundleReport struct {
	Dir          types.FilesystemPath
	ManifestPath types.FilesystemPath
	// Files are bundle-relative, in the order they were written.
	Files []string
	// ArtifactDigest is the sha256 digest of the bundled .wasm file.
	ArtifactDigest digest.Digest
}

// Assemble stages a bundle in dest: the serialized manifest, the compiled
// artifact, the license and readme (flattened to their file names), and
// every binding file at its path relative to the package directory.
//
// dest is created if needed; callers wanting a clean rebuild remove it first.
// A failure part way through leaves a partial bundle behind.
func Assemble(dest types.FilesystemPath, manifest *descriptor.Manifest, artifact types.FilesystemPath, pkg *cargo.Package) (*BundleReport, error) {
	report := &BundleReport{
		Dir:          dest,
		ManifestPath: fspath.JoinStr(dest, descriptor.FileName),
	}

	if err := os.MkdirAll(dest.String(), dirPerm); err != nil {
		return nil, &FileError{Op: "create directory", Path: dest, Err: err}
	}

	data, err := descriptor.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err := os.WriteFile(report.ManifestPath.String(), data, 0o644); err != nil {
		return nil, &FileError{Op: "write", Path: report.ManifestPath, Err: err}
	}
	report.Files = append(report.Files, descriptor.FileName)

	artifactName := fspath.Base(artifact)
	if err := copyFile(artifact, fspath.JoinStr(dest, artifactName)); err != nil {
		return nil, err
	}
	report.Files = append(report.Files, artifactName)

	sum, err := fileDigest(fspath.JoinStr(dest, artifactName))
	if err != nil {
		return nil, err
	}
	report.ArtifactDigest = sum

	for _, src := range []types.FilesystemPath{pkg.LicenseFilePath(), pkg.ReadmePath()} {
		if src == "" {
			continue
		}
		name := fspath.Base(src)
		if err := copyFile(src, fspath.JoinStr(dest, name)); err != nil {
			return nil, err
		}
		report.Files = append(report.Files, name)
	}

	bindingFiles, err := resolveBindingFiles(manifest, pkg.BaseDir())
	if err != nil {
		return nil, err
	}
	for _, rel := range bindingFiles {
		target := fspath.JoinStr(dest, rel)
		if err := os.MkdirAll(fspath.Dir(target).String(), dirPerm); err != nil {
			return nil, &FileError{Op: "create directory", Path: fspath.Dir(target), Err: err}
		}
		if err := copyFile(fspath.JoinStr(pkg.BaseDir(), rel), target); err != nil {
			return nil, err
		}
		report.Files = append(report.Files, filepath.ToSlash(rel))
	}

	return report, nil
}

// resolveBindingFiles returns every binding file of every module relative to
// baseDir. All files are resolved before any is copied so that an escaping or
// missing include aborts before the first binding copy.
func resolveBindingFiles(manifest *descriptor.Manifest, baseDir types.FilesystemPath) ([]string, error) {
	seen := make(map[string]bool)
	var rels []string
	for _, mod := range manifest.Modules {
		if mod.Bindings == nil {
			continue
		}
		files, err := mod.Bindings.ReferencedFiles(baseDir.String())
		if err != nil {
			return nil, fmt.Errorf("%w: bindings of module %q: %w", ErrIO, mod.Name, err)
		}
		for _, f := range files {
			rel, err := fspath.RelWithin(baseDir, types.FilesystemPath(f))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrIO, err)
			}
			if !seen[rel] {
				seen[rel] = true
				rels = append(rels, rel)
			}
		}
	}
	return rels, nil
}

func copyFile(src, dst types.FilesystemPath) (err error) {
	in, err := os.Open(src.String())
	if err != nil {
		return &FileError{Op: "open", Path: src, Err: err}
	}
	defer func() { _ = in.Close() }() // Read-only file; close error non-critical

	info, err := in.Stat()
	if err != nil {
		return &FileError{Op: "stat", Path: src, Err: err}
	}

	out, err := os.OpenFile(dst.String(), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &FileError{Op: "create", Path: dst, Err: err}
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = &FileError{Op: "close", Path: dst, Err: closeErr}
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return &FileError{Op: "copy to", Path: dst, Err: err}
	}
	return nil
}

func fileDigest(p types.FilesystemPath) (digest.Digest, error) {
	f, err := os.Open(p.String())
	if err != nil {
		return "", &FileError{Op: "open", Path: p, Err: err}
	}
	defer func() { _ = f.Close() }() // Read-only file; close error non-critical

	d, err := digest.SHA256.FromReader(f)
	if err != nil {
		return "", &FileError{Op: "hash", Path: p, Err: err}
	}
	return d, nil
}
