// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package places

import (
	"sort"
	"unicode/utf8"
)

// Settings describe how a place label is drawn by the client.
type Settings struct {
	UseTypeIcon       bool    `json:"use_type_icon"`
	UseFixedScale     bool    `json:"use_fixed_scale"`
	UseFixedHeight    bool    `json:"use_fixed_height"`
	UsePointingLine   bool    `json:"use_pointing_line"`
	MaxNameCharacters int     `json:"max_name_characters"`
	FixedSize         float64 `json:"fixed_size"`
	FixedHeight       float64 `json:"fixed_height"`
}

// DefaultSettings are the label defaults.
func DefaultSettings() Settings {
	return Settings{
		UseTypeIcon:       true,
		UseFixedScale:     true,
		UsePointingLine:   true,
		MaxNameCharacters: 30,
		FixedSize:         0.001,
		FixedHeight:       2,
	}
}

// DisplayMode applies Settings from a distance in metres onwards.
type DisplayMode struct {
	Name     string   `json:"name"`
	Distance float64  `json:"distance"`
	Settings Settings `json:"settings"`
}

// DefaultModes are the modes used when none are configured, already
// sorted.
func DefaultModes() []DisplayMode {
	near := DefaultSettings()
	near.UseFixedScale = false
	distant := DefaultSettings()
	distant.UsePointingLine = false
	distant.MaxNameCharacters = 12
	return []DisplayMode{
		{Name: "distant", Distance: 1000, Settings: distant},
		{Name: "normal", Distance: 100, Settings: DefaultSettings()},
		{Name: "close", Distance: 0, Settings: near},
	}
}

// SortModes orders modes by distance, farthest first. SelectMode expects
// this order.
func SortModes(modes []DisplayMode) {
	sort.SliceStable(modes, func(i, j int) bool {
		return modes[i].Distance > modes[j].Distance
	})
}

// SelectMode picks the mode for a place at distance metres with the given
// rank by distance. The closest maxClose places get the first mode whose
// distance does not exceed theirs, falling back to the last mode; all other
// places get the first mode. ok is false when there are no modes.
func SelectMode(modes []DisplayMode, distance float64, rank, maxClose int) (DisplayMode, bool) {
	if len(modes) == 0 {
		return DisplayMode{}, false
	}
	if rank >= maxClose {
		return modes[0], true
	}
	for i, m := range modes {
		if m.Distance > distance && i != len(modes)-1 {
			continue
		}
		return m, true
	}
	return modes[len(modes)-1], true
}

const ellipsis = "..."

// Label cuts name to fit maxChars, ellipsis included.
func Label(name string, maxChars int) string {
	limit := maxChars - len(ellipsis)
	if utf8.RuneCountInString(name) <= limit {
		return name
	}
	if limit < 0 {
		limit = 0
	}
	return string([]rune(name)[:limit]) + ellipsis
}
