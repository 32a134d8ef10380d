// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/cargo-wasmer/cargo-wasmer/internal/issue"
	"github.com/cargo-wasmer/cargo-wasmer/internal/pack"
	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
	"github.com/cargo-wasmer/cargo-wasmer/internal/publish"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/descriptor"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/fspath"
)

// classifiers are checked in order; the first match wins. More specific
// sentinels come before the categories they wrap.
var classifiers = []struct {
	target error
	id     issue.Id
}{
	{process.ErrNotFound, issue.ToolNotInstalledId},
	{errConfigLoad, issue.ConfigLoadFailedId},
	{cargo.ErrMetadataFailed, issue.MetadataQueryFailedId},
	{cargo.ErrMetadataTableMissing, issue.MetadataTableMissingId},
	{cargo.ErrMetadataTableMalformed, issue.MalformedMetadataTableId},
	{pack.ErrConflictingScope, issue.ConflictingScopeId},
	{pack.ErrMissingDescription, issue.MissingDescriptionId},
	{pack.ErrEmptyDescription, issue.MissingDescriptionId},
	{pack.ErrNoPackageSelected, issue.NoPackageSelectedId},
	{pack.ErrPackageNotFound, issue.PackageNotFoundId},
	{pack.ErrNoPackageableTarget, issue.NoPackageableTargetId},
	{pack.ErrAmbiguousTarget, issue.AmbiguousTargetId},
	{pack.ErrCompilerFailed, issue.CompilerFailedId},
	{pack.ErrArtifactMissing, issue.ArtifactMissingId},
	{fspath.ErrPathEscapesBaseDirectory, issue.PathEscapesBaseDirectoryId},
	{descriptor.ErrBindingFileNotFound, issue.BindingFileNotFoundId},
	{pack.ErrIO, issue.BundleWriteFailedId},
	{publish.ErrPublishFailed, issue.PublishFailedId},
	{pack.ErrConfiguration, issue.MalformedMetadataTableId},
}

// classifyError maps a pipeline failure to an issue catalog ID and returns a
// styled message for CLI rendering. The ID is zero when nothing matches.
func classifyError(err error, verbose bool) (issueID issue.Id, styledMsg string) {
	for _, c := range classifiers {
		if errors.Is(err, c.target) {
			issueID = c.id
			break
		}
	}

	return issueID, fmt.Sprintf("%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
}

// formatErrorForDisplay formats an error for user display. Actionable errors
// use their own formatting; anything else prints its cause chain, one
// "caused by" line per wrapped message when verbose.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	if !verbose {
		return err.Error()
	}

	msg := err.Error()
	for cause := issue.NextCause(err); cause != nil; cause = issue.NextCause(cause) {
		msg += "\n  " + VerboseStyle.Render("caused by: "+cause.Error())
	}
	return msg
}
