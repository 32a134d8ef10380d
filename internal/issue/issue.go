// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"sort"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NoPackageSelectedId Id = iota + 1
	PackageNotFoundId
	ConflictingScopeId
	NoPackageableTargetId
	AmbiguousTargetId
	MissingDescriptionId
	MetadataTableMissingId
	MalformedMetadataTableId
	MetadataQueryFailedId
	CompilerFailedId
	ArtifactMissingId
	PathEscapesBaseDirectoryId
	BindingFileNotFoundId
	BundleWriteFailedId
	PublishFailedId
	ToolNotInstalledId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation for the failing area
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

const (
	cargoTargetsDoc   HttpLink = "https://doc.rust-lang.org/cargo/reference/cargo-targets.html"
	cargoManifestDoc  HttpLink = "https://doc.rust-lang.org/cargo/reference/manifest.html"
	cargoMetadataDoc  HttpLink = "https://doc.rust-lang.org/cargo/reference/manifest.html#the-metadata-table"
	wasmerManifestDoc HttpLink = "https://docs.wasmer.io/registry/manifest"
	wasmerInstallDoc  HttpLink = "https://docs.wasmer.io/install"
	rustupTargetsDoc  HttpLink = "https://rust-lang.github.io/rustup/cross-compilation.html"
)

var (
	render = glamour.Render

	noPackageSelectedIssue = &Issue{
		id: NoPackageSelectedId,
		mdMsg: `
# No package selected!

The current directory is not inside any package of the workspace, and the
workspace has no root package to fall back to.

## Things you can try:
- Change into the directory of the crate you want to package
- Package every configured crate in the workspace:
~~~
$ cargo wasmer pack --workspace
~~~
- Name the crates explicitly:
~~~
$ cargo wasmer pack --package my-crate
~~~`,
		docLinks: []HttpLink{cargoManifestDoc},
	}

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found!

A name passed with ` + "`--package`" + ` is not a member of the workspace.
Names are matched exactly, including case.

## Things you can try:
- Check the spelling against the ` + "`name`" + ` in the crate's Cargo.toml
- Make sure the crate is listed in ` + "`[workspace] members`" + ``,
	}

	conflictingScopeIssue = &Issue{
		id: ConflictingScopeId,
		mdMsg: `
# Conflicting package selection!

` + "`--exclude`" + ` only makes sense together with ` + "`--workspace`" + `, and
` + "`--package`" + ` cannot be combined with ` + "`--workspace`" + `.

## Things you can try:
- Use ` + "`--workspace --exclude <name>`" + ` to package everything but a few crates
- Use ` + "`--package <name>`" + ` (repeatable) to package specific crates`,
	}

	noPackageableTargetIssue = &Issue{
		id: NoPackageableTargetId,
		mdMsg: `
# Nothing to package!

The crate has neither a binary target nor a library with
` + "`crate-type = [\"cdylib\"]`" + `, so there is no WebAssembly module to build.

## Things you can try:
- Add a ` + "`src/main.rs`" + ` for a command-line program
- Or turn the library into a dynamic library:
~~~toml
[lib]
crate-type = ["cdylib", "rlib"]
~~~`,
		docLinks: []HttpLink{cargoTargetsDoc},
	}

	ambiguousTargetIssue = &Issue{
		id: AmbiguousTargetId,
		mdMsg: `
# More than one target could be packaged!

A Wasmer package contains exactly one module, but this crate has several
binary or cdylib targets. Guessing could ship the wrong artifact.

## Things you can try:
- Move extra binaries into their own crates
- Drop ` + "`cdylib`" + ` from the library's ` + "`crate-type`" + ` if the binary is what you want to publish`,
		docLinks: []HttpLink{cargoTargetsDoc},
	}

	missingDescriptionIssue = &Issue{
		id: MissingDescriptionId,
		mdMsg: `
# The crate needs a description!

The Wasmer registry requires every package to have a non-empty description.

## Things you can try:
- Add one to the crate's Cargo.toml:
~~~toml
[package]
description = "What this package does"
~~~`,
		docLinks: []HttpLink{cargoManifestDoc, wasmerManifestDoc},
	}

	metadataTableMissingIssue = &Issue{
		id: MetadataTableMissingId,
		mdMsg: `
# No [package.metadata.wasmer] table!

The crate has not been configured for packaging.

## Things you can try:
- Add the table to the crate's Cargo.toml:
~~~toml
[package.metadata.wasmer]
namespace = "my-namespace"
abi = "wasi"
~~~`,
		docLinks: []HttpLink{cargoMetadataDoc},
	}

	malformedMetadataTableIssue = &Issue{
		id: MalformedMetadataTableId,
		mdMsg: `
# Invalid [package.metadata.wasmer] table!

The table does not match the expected schema.

## Expected fields:
- ` + "`namespace`" + ` (required): the registry namespace
- ` + "`abi`" + ` (required): one of ` + "`wasi`" + `, ` + "`emscripten`" + ` or ` + "`none`" + `
- ` + "`package`" + `: overrides the crate name
- ` + "`wasmer-extra-flags`" + `: extra runtime flags, as shell words
- ` + "`fs`" + `: a table mapping guest paths to host directories
- ` + "`bindings`" + `: ` + "`{ wit-bindgen, wit-exports }`" + ` or ` + "`{ wai-version, exports, imports }`" + ``,
		docLinks: []HttpLink{cargoMetadataDoc, wasmerManifestDoc},
	}

	metadataQueryFailedIssue = &Issue{
		id: MetadataQueryFailedId,
		mdMsg: `
# Unable to read the workspace!

` + "`cargo metadata`" + ` failed. This usually means Cargo.toml itself has a problem.

## Things you can try:
- Run ` + "`cargo metadata --format-version 1`" + ` to see Cargo's own error
- Check the path passed with ` + "`--manifest-path`" + ``,
	}

	compilerFailedIssue = &Issue{
		id: CompilerFailedId,
		mdMsg: `
# Compilation failed!

` + "`cargo build`" + ` exited unsuccessfully. Its output is shown above.

## Things you can try:
- Make sure the WebAssembly target is installed:
~~~
$ rustup target add wasm32-wasi
~~~
- Check that every dependency supports WebAssembly
- Build once in debug mode for more readable errors:
~~~
$ cargo wasmer pack --debug
~~~`,
		docLinks: []HttpLink{rustupTargetsDoc},
	}

	artifactMissingIssue = &Issue{
		id: ArtifactMissingId,
		mdMsg: `
# The compiled module is missing!

Cargo reported success but the expected ` + "`.wasm`" + ` file was not produced.

## Things you can try:
- Check for a ` + "`[profile]`" + ` or ` + "`build.target-dir`" + ` override in .cargo/config.toml
- Make sure the library's ` + "`crate-type`" + ` includes ` + "`cdylib`" + ``,
	}

	pathEscapesBaseDirectoryIssue = &Issue{
		id: PathEscapesBaseDirectoryId,
		mdMsg: `
# A referenced file lives outside the crate!

Binding files and everything they include must be inside the crate's directory
so they can be copied into the package at the same relative path.

## Things you can try:
- Move the shared interface files into the crate
- Replace ` + "`../`" + ` includes with paths inside the crate`,
	}

	bindingFileNotFoundIssue = &Issue{
		id: BindingFileNotFoundId,
		mdMsg: `
# A bindings file is missing!

A file named by ` + "`bindings`" + ` (or included by one) does not exist.

## Things you can try:
- Check the paths in ` + "`[package.metadata.wasmer.bindings]`" + `; they are relative to Cargo.toml
- Check ` + "`use ... from`" + ` statements; they are relative to the including file`,
	}

	bundleWriteFailedIssue = &Issue{
		id: BundleWriteFailedId,
		mdMsg: `
# Unable to write the package!

A file could not be created or copied into the output directory.

## Things you can try:
- Check permissions on the output directory
- Choose another location with ` + "`--out-dir`" + ``,
	}

	publishFailedIssue = &Issue{
		id: PublishFailedId,
		mdMsg: `
# Publishing failed!

The wasmer CLI exited unsuccessfully. Its output is shown above.

## Things you can try:
- Log in first:
~~~
$ wasmer login
~~~
- Check that the version in Cargo.toml has not been published already
- Try a dry run:
~~~
$ cargo wasmer publish --dry-run
~~~`,
		docLinks: []HttpLink{wasmerManifestDoc},
	}

	toolNotInstalledIssue = &Issue{
		id: ToolNotInstalledId,
		mdMsg: `
# A required tool is not installed!

cargo-wasmer drives ` + "`cargo`" + ` and ` + "`wasmer`" + ` as subprocesses.

## Things you can try:
- Install the wasmer CLI and make sure it is on your PATH
- Point to a specific binary in the config file:
~~~cue
cargo_binary: "/opt/rust/bin/cargo"
wasmer_binary: "/opt/wasmer/bin/wasmer"
~~~`,
		extLinks: []HttpLink{wasmerInstallDoc},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the file for CUE syntax errors
- Show the defaults:
~~~
$ cargo wasmer config show
~~~
- Recreate the file:
~~~
$ cargo wasmer config init
~~~`,
	}

	issues = map[Id]*Issue{
		noPackageSelectedIssue.Id():        noPackageSelectedIssue,
		packageNotFoundIssue.Id():          packageNotFoundIssue,
		conflictingScopeIssue.Id():         conflictingScopeIssue,
		noPackageableTargetIssue.Id():      noPackageableTargetIssue,
		ambiguousTargetIssue.Id():          ambiguousTargetIssue,
		missingDescriptionIssue.Id():       missingDescriptionIssue,
		metadataTableMissingIssue.Id():     metadataTableMissingIssue,
		malformedMetadataTableIssue.Id():   malformedMetadataTableIssue,
		metadataQueryFailedIssue.Id():      metadataQueryFailedIssue,
		compilerFailedIssue.Id():           compilerFailedIssue,
		artifactMissingIssue.Id():          artifactMissingIssue,
		pathEscapesBaseDirectoryIssue.Id(): pathEscapesBaseDirectoryIssue,
		bindingFileNotFoundIssue.Id():      bindingFileNotFoundIssue,
		bundleWriteFailedIssue.Id():        bundleWriteFailedIssue,
		publishFailedIssue.Id():            publishFailedIssue,
		toolNotInstalledIssue.Id():         toolNotInstalledIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	sort.Slice(values, func(a, b int) bool { return values[a].id < values[b].id })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
