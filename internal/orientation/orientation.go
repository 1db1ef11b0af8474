// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package orientation

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
)

// Pose is the human-readable form of an orientation, in degrees. Roll and
// pitch are signed, yaw is a heading in [0,360).
type Pose struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// ComputePoseFromAccel computes roll and pitch from accelerometer data only.
// Yaw is left at 0 for the caller to fill from the compass.
//
// Uses simple tilt formulas:
//
//	roll  = atan2(ay, az)
//	pitch = atan2(-ax, sqrt(ay² + az²))
func ComputePoseFromAccel(ax, ay, az float64) Pose {
	rollRad := math.Atan2(ay, az)
	pitchRad := math.Atan2(-ax, math.Sqrt(ay*ay+az*az))

	return Pose{
		Roll:  rad2deg(rollRad),
		Pitch: rad2deg(pitchRad),
	}
}

// PoseOf reads a rotation back as a pose.
func PoseOf(q quat.Number) Pose {
	e := EulerAngles(q)
	return Pose{
		Roll:  signedDegrees(e.Z),
		Pitch: signedDegrees(e.X),
		Yaw:   e.Y,
	}
}

// AttitudeFromTilt builds a device-to-world attitude for sources that have
// no fused attitude of their own: tilt from the accelerometer, yaw from the
// heading.
func AttitudeFromTilt(p Pose, heading float64) quat.Number {
	return Euler(p.Pitch, heading, p.Roll)
}

func signedDegrees(deg float64) float64 {
	if deg > 180 {
		return deg - 360
	}
	return deg
}
