package harness

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
)

// Descriptor identifies the shared rendezvous point for one test invocation.
// All participating processes build the same descriptor from the same shared
// file path, differing only in their own rank.
type Descriptor struct {
	Path      string
	Rank      int
	WorldSize int
}

// NewDescriptor validates the test identity and returns a descriptor for it.
// The path must be absolute, since every rank has to resolve it to the same
// location on a shared filesystem.
func NewDescriptor(path string, rank, worldSize int) (Descriptor, error) {
	if path == "" {
		return Descriptor{}, &ConfigurationError{Reason: "rendezvous path is empty"}
	}
	if !filepath.IsAbs(path) {
		return Descriptor{}, &ConfigurationError{
			Reason: fmt.Sprintf("rendezvous path %q is not absolute", path)}
	}
	if worldSize < 1 {
		return Descriptor{}, &ConfigurationError{
			Reason: fmt.Sprintf("world size must be at least 1, got %d", worldSize)}
	}
	if rank < 0 || rank >= worldSize {
		return Descriptor{}, &ConfigurationError{
			Reason: fmt.Sprintf("rank %d is out of range for world size %d", rank, worldSize)}
	}
	return Descriptor{Path: path, Rank: rank, WorldSize: worldSize}, nil
}

// URL renders the descriptor in the canonical form that distributed test
// runners expect: file://<path>?rank=<rank>&world_size=<worldSize>.
func (d Descriptor) URL() string {
	return fmt.Sprintf("file://%s?rank=%d&world_size=%d", d.Path, d.Rank, d.WorldSize)
}

// ParseDescriptor decodes a canonical descriptor URL. Transport
// implementations use it to recover the shared path and identity from the
// string form the harness hands them.
func ParseDescriptor(raw string) (Descriptor, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Descriptor{}, &ConfigurationError{Reason: fmt.Sprintf("malformed descriptor %q: %s", raw, err)}
	}
	if u.Scheme != "file" {
		return Descriptor{}, &ConfigurationError{
			Reason: fmt.Sprintf("descriptor %q does not use the file scheme", raw)}
	}
	q := u.Query()
	rank, err := strconv.Atoi(q.Get("rank"))
	if err != nil {
		return Descriptor{}, &ConfigurationError{Reason: fmt.Sprintf("descriptor %q has no valid rank", raw)}
	}
	worldSize, err := strconv.Atoi(q.Get("world_size"))
	if err != nil {
		return Descriptor{}, &ConfigurationError{Reason: fmt.Sprintf("descriptor %q has no valid world_size", raw)}
	}
	return NewDescriptor(u.Host+u.Path, rank, worldSize)
}
