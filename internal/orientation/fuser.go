// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

// Fuser owns the orientation state of one navigation session. It is driven
// from a single tick goroutine and is not safe for concurrent use.
type Fuser struct {
	cfg   Config
	state State
}

// NewFuser starts a session with the given config.
func NewFuser(cfg Config) *Fuser {
	cfg = cfg.Normalize()
	return &Fuser{cfg: cfg, state: NewState(cfg)}
}

// Advance fuses one sample and returns a snapshot of the new state.
func (f *Fuser) Advance(sample Sample) State {
	f.state = f.state.Advance(sample, f.cfg)
	return f.State()
}

// Heading is the last known heading for external callers.
func (f *Fuser) Heading() float64 {
	return f.state.Heading(f.cfg)
}

// State returns a copy the caller may keep.
func (f *Fuser) State() State {
	s := f.state
	s.Headings = append([]float64(nil), f.state.Headings...)
	return s
}

// Config returns the normalised config.
func (f *Fuser) Config() Config {
	return f.cfg
}

// SetConfig replaces the config. Switching camera rotation on or off puts
// the world rotation back to its initial value for the new mode.
func (f *Fuser) SetConfig(cfg Config) {
	cfg = cfg.Normalize()
	if cfg.UseCameraRotation != f.cfg.UseCameraRotation {
		f.state.World = initialWorldRotation(cfg)
	}
	f.cfg = cfg
}

// Reset discards the session state.
func (f *Fuser) Reset() {
	f.state = NewState(f.cfg)
}
