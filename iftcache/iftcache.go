// Package iftcache reads precomputed per-packet interface decisions
// from a cache file produced by an external pass over the capture. One
// byte per packet, 1-based ordinals.
package iftcache

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// Destination is the cached verdict for a single packet.
type Destination byte

const (
	// Drop means the packet is not sent at all.
	Drop Destination = 0
	// Primary sends the packet out the primary interface.
	Primary Destination = 1
	// Secondary sends the packet out the secondary interface.
	Secondary Destination = 2
)

// File layout: magic, big-endian uint32 packet count, then one
// Destination byte per packet.
var magic = []byte("TRCACHE1")

// Cache holds the full decision table in memory; caches are tiny
// relative to the captures they describe.
type Cache struct {
	entries []Destination
}

// New builds a Cache directly from a decision table.
func New(entries []Destination) *Cache {
	return &Cache{entries: entries}
}

// Load reads a cache file from disk.
func Load(path string) (*Cache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open cache file %s", path)
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cache file %s", path)
	}
	return c, nil
}

// Read parses the cache format from r.
func Read(r io.Reader) (*Cache, error) {
	header := make([]byte, len(magic)+4)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(err, "short cache header")
	}
	for i, b := range magic {
		if header[i] != b {
			return nil, errors.New("not an interface cache file (bad magic)")
		}
	}

	count := binary.BigEndian.Uint32(header[len(magic):])
	raw := make([]byte, count)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, errors.Wrapf(err, "cache truncated: expected %d entries", count)
	}

	entries := make([]Destination, count)
	for i, b := range raw {
		d := Destination(b)
		if d != Drop && d != Primary && d != Secondary {
			return nil, errors.Errorf("cache entry %d has invalid value %d", i+1, b)
		}
		entries[i] = d
	}
	return &Cache{entries: entries}, nil
}

// Write emits the cache format to w. It is the inverse of Read and is
// what external preparation passes use to produce cache files.
func Write(w io.Writer, entries []Destination) error {
	if _, err := w.Write(magic); err != nil {
		return errors.Wrap(err, "failed to write cache magic")
	}
	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(entries)))
	if _, err := w.Write(count[:]); err != nil {
		return errors.Wrap(err, "failed to write cache count")
	}
	raw := make([]byte, len(entries))
	for i, d := range entries {
		raw[i] = byte(d)
	}
	if _, err := w.Write(raw); err != nil {
		return errors.Wrap(err, "failed to write cache entries")
	}
	return nil
}

// Len is the number of packets the cache describes.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Lookup returns the verdict for the packet with the given 1-based
// ordinal. An ordinal beyond the cache length is a configuration error:
// the cache no longer describes the capture being replayed.
func (c *Cache) Lookup(ordinal uint64) (Destination, error) {
	if ordinal == 0 || ordinal > uint64(len(c.entries)) {
		return Drop, errors.Errorf("packet ordinal %d exceeds cache length %d", ordinal, len(c.entries))
	}
	return c.entries[ordinal-1], nil
}
