// Package id provides the process-unique node identifier used throughout
// fluxrt: a 128-bit value, generated from a cryptographically random
// source, that is never reused after a node is removed from a graph.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NodeID is an opaque 128-bit identifier. The zero value, Nil, is a
// sentinel used on error paths and is never returned by New.
type NodeID [16]byte

// Nil is the sentinel "no id" value.
var Nil NodeID

// New returns a fresh, process-unique NodeID.
//
// IDs are sourced from crypto/rand rather than a seeded PRNG: unlike the
// synthetic topologies a host might build with math/rand for reproducible
// testing, node identity must never collide across independently
// constructed graphs and must never be predictable from a seed.
func New() NodeID {
	var id NodeID
	if _, err := rand.Read(id[:]); err != nil {
		// crypto/rand.Read on any supported platform only fails if the
		// OS entropy source is unavailable, which is unrecoverable here.
		panic(fmt.Sprintf("id: crypto/rand unavailable: %v", err))
	}
	// Guard against the astronomically unlikely all-zero draw so Nil
	// never aliases a live node.
	if id == Nil {
		id[0] = 1
	}
	return id
}

// IsNil reports whether id is the sentinel Nil value.
func (n NodeID) IsNil() bool { return n == Nil }

// String renders the id as a lowercase hex string, e.g. for log messages
// and error formatting.
func (n NodeID) String() string {
	return hex.EncodeToString(n[:])
}
