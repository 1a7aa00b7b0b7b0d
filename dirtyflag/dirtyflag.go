// Package dirtyflag implements the per-output staleness bookkeeping the
// evaluator consults to decide whether a node needs recomputation:
// a target/reference version pair, a last-seen epoch/time/frame, and a
// Mode that governs how time and frame advances affect staleness.
package dirtyflag

import "sync/atomic"

// GlobalEpoch is the process-wide bulk-invalidation counter. It is the
// one piece of lock-free shared state besides node-id generation (see
// package id): bumping it marks every ModeAnimated, ModeTimeChanged or
// ModeFrameChanged Flag whose invalidatedAtEpoch predates it as stale
// on its next staleness check, without having to walk the graph.
// ModeNone flags ignore the epoch.
var GlobalEpoch atomic.Uint64

// AdvanceEpoch bumps GlobalEpoch and returns the new value. Call this
// once per structural graph change that should invalidate every
// downstream cache regardless of individual dirty flags (e.g. before a
// bulk reconnect).
func AdvanceEpoch() uint64 {
	return GlobalEpoch.Add(1)
}

// Mode selects how a Flag's IsStale check treats the passage of time
// and frames, independent of explicit MarkDirty calls.
type Mode int

const (
	// ModeNone never considers a flag stale from time/frame/epoch
	// movement; only an explicit MarkDirty makes it stale.
	ModeNone Mode = iota
	// ModeAlways reports stale on every check, regardless of versions.
	ModeAlways
	// ModeAnimated is the default: stale on version mismatch, or when
	// the epoch has advanced since the last MarkClean.
	ModeAnimated
	// ModeTimeChanged additionally reports stale when the evaluation
	// time has moved by more than 1e-10 since the last MarkClean.
	ModeTimeChanged
	// ModeFrameChanged additionally reports stale when the frame
	// counter differs from the one recorded at the last MarkClean.
	ModeFrameChanged
)

// timeEpsilon is the minimum time delta ModeTimeChanged treats as an
// actual change, guarding against float accumulation noise re-dirtying
// a flag whose driving time value is effectively constant.
const timeEpsilon = 1e-10

// Flag tracks one output's staleness. The zero Flag is in ModeNone with
// equal target and reference versions, so it is not stale; construct
// with New to get a flag in a chosen mode that starts dirty.
type Flag struct {
	mode Mode

	targetVersion    uint64
	referenceVersion uint64

	invalidatedAtEpoch uint64
	lastTime           float64
	lastFrame          uint64
}

// New returns a Flag in mode, initially dirty.
func New(mode Mode) *Flag {
	return &Flag{mode: mode, targetVersion: 1}
}

// Mode returns the flag's staleness mode.
func (f *Flag) Mode() Mode { return f.mode }

// SetMode changes the flag's staleness mode.
func (f *Flag) SetMode(m Mode) { f.mode = m }

// MarkDirty increments the target version, making the flag stale
// regardless of mode until the next MarkClean.
func (f *Flag) MarkDirty() {
	f.targetVersion++
}

// MarkClean records that the node has been recomputed as of now/frame:
// the reference version catches up to the target version and the
// epoch/time/frame bookkeeping is refreshed.
func (f *Flag) MarkClean(now float64, frame uint64) {
	f.referenceVersion = f.targetVersion
	f.invalidatedAtEpoch = GlobalEpoch.Load()
	f.lastTime = now
	f.lastFrame = frame
}

// IsStale reports whether the flag's owner must be recomputed before
// its output can be trusted at evaluation time now/frame.
func (f *Flag) IsStale(now float64, frame uint64) bool {
	if f.targetVersion != f.referenceVersion {
		return true
	}
	switch f.mode {
	case ModeNone:
		return false
	case ModeAlways:
		return true
	case ModeAnimated:
		return f.invalidatedAtEpoch != GlobalEpoch.Load()
	case ModeTimeChanged:
		if f.invalidatedAtEpoch != GlobalEpoch.Load() {
			return true
		}
		delta := now - f.lastTime
		if delta < 0 {
			delta = -delta
		}
		return delta > timeEpsilon
	case ModeFrameChanged:
		if f.invalidatedAtEpoch != GlobalEpoch.Load() {
			return true
		}
		return frame != f.lastFrame
	default:
		return true
	}
}
