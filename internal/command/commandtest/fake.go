// Package commandtest provides test doubles for command trees.
package commandtest

import (
	"context"
	"sync/atomic"

	"azmcp/internal/command"
)

// Fake is a Command whose behaviour is scripted by the test. It counts calls
// so tests can assert that the external collaborator was never reached.
type Fake struct {
	Desc     command.Descriptor
	Result   any
	Err      error
	ExecFunc func(ctx context.Context, opts command.Options) (any, error)

	calls atomic.Int64
	last  atomic.Value
}

// New returns a read-only fake with the given title and options.
func New(title string, opts ...command.Option) *Fake {
	return &Fake{Desc: command.Descriptor{Title: title, Description: title, ReadOnly: true, Options: opts}}
}

// Destructive returns a fake flagged as destructive.
func Destructive(title string, opts ...command.Option) *Fake {
	return &Fake{Desc: command.Descriptor{Title: title, Description: title, Destructive: true, Options: opts}}
}

func (f *Fake) Descriptor() command.Descriptor { return f.Desc }

func (f *Fake) Execute(ctx context.Context, opts command.Options) (any, error) {
	f.calls.Add(1)
	f.last.Store(opts)
	if f.ExecFunc != nil {
		return f.ExecFunc(ctx, opts)
	}
	return f.Result, f.Err
}

// Calls returns how many times Execute ran.
func (f *Fake) Calls() int64 { return f.calls.Load() }

// LastOptions returns the options of the most recent call.
func (f *Fake) LastOptions() command.Options {
	o, _ := f.last.Load().(command.Options)
	return o
}

// Tree builds a tree with a fake at each path and returns both.
func Tree(paths ...string) (*command.Tree, map[string]*Fake) {
	tree := command.NewTree()
	fakes := make(map[string]*Fake, len(paths))
	for _, p := range paths {
		f := New(p)
		f.Result = map[string]any{"path": p}
		tree.MustRegister(p, f)
		fakes[p] = f
	}
	return tree, fakes
}
