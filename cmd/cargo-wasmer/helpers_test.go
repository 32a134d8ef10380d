// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/cargo-wasmer/cargo-wasmer/internal/config"
	"github.com/cargo-wasmer/cargo-wasmer/internal/pack"
	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
	"github.com/cargo-wasmer/cargo-wasmer/internal/process/processtest"
	"github.com/cargo-wasmer/cargo-wasmer/internal/testutil"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/cargo"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/descriptor"
	"github.com/cargo-wasmer/cargo-wasmer/pkg/types"
)

type (
	// staticConfig is a ConfigProvider returning a fixed result.
	staticConfig struct {
		cfg *config.Config
		err error
	}

	// workspaceFixture is a two-member workspace on disk: "hello" has a
	// wasmer table, "plain" does not.
	workspaceFixture struct {
		root     string
		target   string
		metadata string
	}

	testApp struct {
		app    *App
		runner *processtest.Recorder
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (s staticConfig) LoadWithSource(context.Context, config.LoadOptions) (*config.Config, types.FilesystemPath, error) {
	if s.err != nil {
		return nil, "", s.err
	}
	return s.cfg, "", nil
}

func newWorkspaceFixture(t *testing.T) *workspaceFixture {
	t.Helper()
	root := t.TempDir()
	testutil.WriteCrate(t, filepath.Join(root, "hello"), "hello", map[string]string{
		"README.md": "# hello\n",
	})
	testutil.WriteCrate(t, filepath.Join(root, "plain"), "plain", nil)

	pkg := func(name, metadata string) map[string]any {
		dir := filepath.Join(root, name)
		return map[string]any{
			"id":            name + " 0.1.0 (path+file://" + dir + ")",
			"name":          name,
			"version":       "0.1.0",
			"description":   "The " + name + " crate",
			"license":       "MIT",
			"readme":        nil,
			"manifest_path": filepath.Join(dir, "Cargo.toml"),
			"targets": []map[string]any{{
				"name": name, "kind": []string{"bin"}, "crate_types": []string{"bin"},
				"src_path": filepath.Join(dir, "src", "main.rs"),
			}},
			"metadata": json.RawMessage(metadata),
		}
	}
	hello := pkg("hello", `{"wasmer": {"namespace": "demo", "abi": "wasi"}}`)
	hello["readme"] = "README.md"
	plain := pkg("plain", `null`)

	target := filepath.Join(root, "target")
	data, err := json.Marshal(map[string]any{
		"packages":          []any{hello, plain},
		"workspace_members": []string{hello["id"].(string), plain["id"].(string)},
		"resolve":           nil,
		"target_directory":  target,
		"workspace_root":    root,
	})
	if err != nil {
		t.Fatalf("marshal metadata: %v", err)
	}

	return &workspaceFixture{root: root, target: target, metadata: string(data)}
}

// recorder answers cargo metadata with the fixture and cargo build by
// writing the artifact of the built package.
func (w *workspaceFixture) recorder(t *testing.T) *processtest.Recorder {
	t.Helper()
	return processtest.NewRecorder().
		On("metadata", processtest.Response{Stdout: w.metadata}).
		On("build", processtest.Response{Do: func(inv process.Invocation) error {
			name := filepath.Base(filepath.Dir(manifestArg(inv.Args)))
			artifact := (&pack.Compiler{}).ArtifactPath(types.FilesystemPath(w.target), descriptor.AbiWasi,
				cargo.Target{Name: name, Kind: []string{cargo.KindBinary}})
			if err := os.MkdirAll(filepath.Dir(artifact.String()), 0o755); err != nil {
				return err
			}
			return os.WriteFile(artifact.String(), []byte("\x00asm\x01\x00\x00\x00"), 0o644)
		}})
}

func manifestArg(args []string) string {
	for i, a := range args {
		if a == "--manifest-path" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func newTestApp(t *testing.T, runner *processtest.Recorder, wd string) *testApp {
	t.Helper()
	testutil.ClearToolEnv(t)
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app := NewApp(Dependencies{
		Config: staticConfig{cfg: config.DefaultConfig()},
		Runner: runner,
		Getwd:  func() (string, error) { return wd, nil },
		Stdout: stdout,
		Stderr: stderr,
	})
	return &testApp{app: app, runner: runner, stdout: stdout, stderr: stderr}
}

// execute runs the command tree without fang so the returned error is
// observable.
func (ta *testApp) execute(args ...string) error {
	root := NewRootCommand(ta.app)
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}
