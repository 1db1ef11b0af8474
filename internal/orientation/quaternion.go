// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Axes of the rendering frame: Y up, Z forward, X right.
var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
	axisZ = r3.Vec{Z: 1}
)

// Identity is the no-rotation quaternion.
var Identity = quat.Number{Real: 1}

// Euler builds a rotation from angles in degrees applied Z first, then X,
// then Y (roll, pitch, yaw), the convention of the camera frame consumers.
func Euler(x, y, z float64) quat.Number {
	qx := axisRotation(axisX, x)
	qy := axisRotation(axisY, y)
	qz := axisRotation(axisZ, z)
	return quat.Mul(quat.Mul(qy, qx), qz)
}

// EulerAngles decomposes q into the Euler triple accepted by Euler, each
// component normalised to [0,360).
func EulerAngles(q quat.Number) r3.Vec {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	sinX := 2 * (w*x - y*z)
	sinX = math.Max(-1, math.Min(1, sinX))

	return r3.Vec{
		X: wrapDegrees(rad2deg(math.Asin(sinX))),
		Y: wrapDegrees(rad2deg(math.Atan2(2*(x*z+w*y), 1-2*(x*x+y*y)))),
		Z: wrapDegrees(rad2deg(math.Atan2(2*(x*y+w*z), 1-2*(x*x+z*z)))),
	}
}

// Yaw is the rotation about the up axis in degrees, [0,360).
func Yaw(q quat.Number) float64 {
	return EulerAngles(q).Y
}

// Slerp interpolates along the shorter arc from a to b. t is clamped to
// [0,1].
func Slerp(a, b quat.Number, t float64) quat.Number {
	t = clamp01(t)

	d := dot(a, b)
	if d < 0 {
		b = quat.Scale(-1, b)
		d = -d
	}

	// nearly parallel: fall back to normalised lerp
	if d > 0.9995 {
		return normalize(quat.Add(a, quat.Scale(t, quat.Sub(b, a))))
	}

	theta := math.Acos(d)
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return quat.Add(quat.Scale(wa, a), quat.Scale(wb, b))
}

// Angle is the smallest rotation angle in degrees between a and b.
func Angle(a, b quat.Number) float64 {
	rel := quat.Mul(quat.Conj(a), b)
	v := math.Sqrt(rel.Imag*rel.Imag + rel.Jmag*rel.Jmag + rel.Kmag*rel.Kmag)
	return rad2deg(2 * math.Atan2(v, math.Abs(rel.Real)))
}

// Forward rotates the +Z axis by q.
func Forward(q quat.Number) r3.Vec {
	return r3.Rotation(q).Rotate(axisZ)
}

func axisRotation(axis r3.Vec, deg float64) quat.Number {
	return quat.Number(r3.NewRotation(deg2rad(deg), axis))
}

func dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

func normalize(q quat.Number) quat.Number {
	return quat.Scale(1/quat.Abs(q), q)
}

func clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

func wrapDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		return 0
	}
	return deg
}

func deg2rad(deg float64) float64 { return deg * math.Pi / 180 }
func rad2deg(rad float64) float64 { return rad * 180 / math.Pi }
