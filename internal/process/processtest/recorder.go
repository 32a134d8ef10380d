// SPDX-License-Identifier: MPL-2.0

// Package processtest provides a scripted process.Runner for tests.
package processtest

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/cargo-wasmer/cargo-wasmer/internal/process"
)

type (
	// Response scripts what a fake program does when invoked.
	Response struct {
		// Status is returned to the caller.
		Status process.Status
		// Err is returned instead of running (e.g., a *process.NotFoundError).
		Err error
		// Stdout is written to the invocation's Stdout, when set.
		Stdout string
		// Do runs before the status is returned, e.g. to create the
		// artifact a real compiler would have produced.
		Do func(inv process.Invocation) error
	}

	// Recorder records every invocation and answers with the Response
	// registered for the invocation's first argument (the subcommand).
	Recorder struct {
		mu          sync.Mutex
		invocations []process.Invocation
		responses   map[string]Response
		// Default answers subcommands without a registered Response.
		Default Response
	}
)

// NewRecorder creates a Recorder that succeeds for every subcommand.
func NewRecorder() *Recorder {
	return &Recorder{responses: make(map[string]Response)}
}

// On registers the response for a subcommand ("metadata", "build", "publish").
func (r *Recorder) On(subcommand string, resp Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses[subcommand] = resp
	return r
}

// Run implements process.Runner.
func (r *Recorder) Run(_ context.Context, inv process.Invocation) (process.Status, error) {
	r.mu.Lock()
	inv.Args = slices.Clone(inv.Args)
	r.invocations = append(r.invocations, inv)
	resp := r.Default
	if len(inv.Args) > 0 {
		if scripted, ok := r.responses[inv.Args[0]]; ok {
			resp = scripted
		}
	}
	r.mu.Unlock()

	if resp.Err != nil {
		return process.Status{}, resp.Err
	}
	if resp.Stdout != "" && inv.Stdout != nil {
		if _, err := io.WriteString(inv.Stdout, resp.Stdout); err != nil {
			return process.Status{}, err
		}
	}
	if resp.Do != nil {
		if err := resp.Do(inv); err != nil {
			return process.Status{}, err
		}
	}
	return resp.Status, nil
}

// Invocations returns a copy of everything run so far.
func (r *Recorder) Invocations() []process.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.invocations)
}

// Calls returns the invocations whose first argument is subcommand.
func (r *Recorder) Calls(subcommand string) []process.Invocation {
	var calls []process.Invocation
	for _, inv := range r.Invocations() {
		if len(inv.Args) > 0 && inv.Args[0] == subcommand {
			calls = append(calls, inv)
		}
	}
	return calls
}
