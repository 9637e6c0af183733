// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SquadUp Contributors

// Package clock provides an injectable time source pinned to a fixed
// UTC offset so expiry logic never depends on the host timezone.
package clock

import (
	"sync"
	"time"
)

// OffsetHours is the fixed offset from UTC used for all instants the
// service produces. The deployment region runs on UTC+8 regardless of
// where the process itself executes.
const OffsetHours = 8

// Zone is the fixed-offset location all clocks report in.
var Zone = time.FixedZone("UTC+8", OffsetHours*60*60)

// Clock produces the current instant in the fixed service zone.
type Clock interface {
	// Now returns the current instant expressed in Zone.
	Now() time.Time
}

// Compare returns a negative value if a is before b, zero if they are
// the same instant, and a positive value otherwise. Comparison is on
// the absolute instant; the wall-clock offset does not matter.
func Compare(a, b time.Time) int {
	return a.Compare(b)
}

// System reads the real time and normalizes it to Zone.
type System struct{}

// NewSystem creates a System clock.
func NewSystem() *System {
	return &System{}
}

// Now returns the current instant in Zone.
func (*System) Now() time.Time {
	return time.Now().In(Zone)
}

// Manual is a Clock whose instant is set explicitly. Safe for
// concurrent use. Intended for tests that need deterministic expiry.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

// NewManual creates a Manual clock starting at the given instant.
func NewManual(now time.Time) *Manual {
	return &Manual{now: now.In(Zone)}
}

// Now returns the currently configured instant in Zone.
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set pins the clock to the given instant.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t.In(Zone)
}

// Advance moves the clock forward (or backward, for negative d).
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Compile-time interface checks.
var (
	_ Clock = (*System)(nil)
	_ Clock = (*Manual)(nil)
)
