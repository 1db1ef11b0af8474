// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package gps

import (
	"errors"
	"fmt"
	"math"
	"strings"

	nmea "github.com/adrianmo/go-nmea"
)

// ErrNoSentence is returned for lines that do not carry an NMEA sentence.
var ErrNoSentence = errors.New("not an NMEA sentence")

// DefaultCourseCapacity is the number of RMC courses averaged.
const DefaultCourseCapacity = 10

// Decoder accumulates NMEA sentences into a running Fix. Only RMC completes
// a fix; the other sentences update the fields they carry.
type Decoder struct {
	current  Fix
	courses  []float64
	capacity int

	// compass sentences seen since the last RMC
	headingFresh  bool
	magneticFresh bool

	// OnSentence is called with the data type of every parsed sentence.
	OnSentence func(dataType string)
}

// NewDecoder creates a decoder averaging the last capacity courses.
func NewDecoder(capacity int) *Decoder {
	if capacity < 1 {
		capacity = DefaultCourseCapacity
	}
	return &Decoder{capacity: capacity}
}

// Feed parses one line. It returns the running fix and true when the line
// was an RMC sentence.
func (d *Decoder) Feed(line string) (Fix, bool, error) {
	line = strings.TrimSpace(line)

	// NMEA sentences usually start with '$'
	if !strings.HasPrefix(line, "$") {
		return Fix{}, false, ErrNoSentence
	}

	sentence, err := nmea.Parse(line)
	if err != nil {
		return Fix{}, false, fmt.Errorf("parse %q: %w", line, err)
	}
	if d.OnSentence != nil {
		d.OnSentence(sentence.DataType())
	}

	switch sentence.DataType() {
	case nmea.TypeRMC:
		m := sentence.(nmea.RMC)
		d.current.Time = m.Time.String()
		d.current.Date = m.Date.String()
		d.current.Latitude = m.Latitude
		d.current.Longitude = m.Longitude
		d.current.SpeedKnots = m.Speed
		d.current.CourseDeg = m.Course
		d.current.Validity = string(m.Validity)
		if d.current.Valid() {
			d.pushCourse(m.Course)
		}
		d.current.AverageCourse = d.AverageCourse()
		d.expireHeadings()
		return d.current, true, nil

	case nmea.TypeGGA:
		m := sentence.(nmea.GGA)
		d.current.Latitude = m.Latitude
		d.current.Longitude = m.Longitude
		d.current.FixQuality = m.FixQuality
		d.current.Satellites = m.NumSatellites
		d.current.Altitude = m.Altitude

	case nmea.TypeVTG:
		m := sentence.(nmea.VTG)
		d.current.CourseDeg = m.TrueTrack
		d.current.SpeedKnots = m.GroundSpeedKnots

	case nmea.TypeHDT:
		m := sentence.(nmea.HDT)
		d.current.HasHeading = true
		d.current.TrueHeading = m.Heading
		d.headingFresh = true

	case nmea.TypeHDG:
		m := sentence.(nmea.HDG)
		magnetic := m.Heading + signed(m.Deviation, m.DeviationDirection)
		d.current.HasHeading = true
		d.current.HasMagneticHeading = true
		d.current.MagneticHeading = wrap360(magnetic)
		d.current.TrueHeading = wrap360(magnetic + signed(m.Variation, m.VariationDirection))
		d.headingFresh, d.magneticFresh = true, true

	case nmea.TypeMWV:
		m := sentence.(nmea.MWV)
		d.current.WindAngle = m.WindAngle
		d.current.WindSpeed = m.WindSpeed
		d.current.WindReference = m.Reference
		d.current.WindSpeedUnit = m.WindSpeedUnit
	}

	return d.current, false, nil
}

// Current returns the running fix.
func (d *Decoder) Current() Fix {
	return d.current
}

// AverageCourse is the mean of the last courses over ground from valid RMC
// sentences, 0 before the first one.
func (d *Decoder) AverageCourse() float64 {
	if len(d.courses) == 0 {
		return 0
	}
	var sum float64
	for _, c := range d.courses {
		sum += c
	}
	return sum / float64(len(d.courses))
}

// expireHeadings drops headings that no compass sentence refreshed during
// the last RMC cycle.
func (d *Decoder) expireHeadings() {
	if !d.headingFresh {
		d.current.HasHeading = false
	}
	if !d.magneticFresh {
		d.current.HasMagneticHeading = false
	}
	d.headingFresh, d.magneticFresh = false, false
}

func (d *Decoder) pushCourse(c float64) {
	d.courses = append(d.courses, c)
	if len(d.courses) > d.capacity {
		d.courses = d.courses[1:]
	}
}

// signed applies an E/W direction: east is positive.
func signed(v float64, dir string) float64 {
	if dir == "W" {
		return -v
	}
	return v
}

func wrap360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
