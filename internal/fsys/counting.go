package fsys

import (
	"context"
	"sync/atomic"
)

// Counting wraps an FS and counts directory listings and metadata calls.
// The extension store promises a bounded number of both on startup, and
// Counting is how that promise is observed.
type Counting struct {
	FS
	readDir  atomic.Int64
	metadata atomic.Int64
	reads    atomic.Int64
}

// NewCounting wraps inner
func NewCounting(inner FS) *Counting {
	return &Counting{FS: inner}
}

// ReadDir counts and delegates
func (c *Counting) ReadDir(ctx context.Context, path string) ([]Entry, error) {
	c.readDir.Add(1)
	return c.FS.ReadDir(ctx, path)
}

// Metadata counts and delegates
func (c *Counting) Metadata(ctx context.Context, path string) (Metadata, error) {
	c.metadata.Add(1)
	return c.FS.Metadata(ctx, path)
}

// ReadFile counts and delegates
func (c *Counting) ReadFile(ctx context.Context, path string) ([]byte, error) {
	c.reads.Add(1)
	return c.FS.ReadFile(ctx, path)
}

// ReadDirCalls returns how many directory listings were issued
func (c *Counting) ReadDirCalls() int64 {
	return c.readDir.Load()
}

// MetadataCalls returns how many metadata calls were issued
func (c *Counting) MetadataCalls() int64 {
	return c.metadata.Load()
}

// ReadFileCalls returns how many whole-file reads were issued
func (c *Counting) ReadFileCalls() int64 {
	return c.reads.Load()
}
