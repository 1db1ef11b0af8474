// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"
	"math"
)

// Full-scale range selectors as written to the MPU9250.
const (
	AccelRange2G  byte = 0
	AccelRange4G  byte = 1
	AccelRange8G  byte = 2
	AccelRange16G byte = 3

	GyroRange250  byte = 0
	GyroRange500  byte = 1
	GyroRange1000 byte = 2
	GyroRange2000 byte = 3
)

var (
	accelLSBPerG   = [...]float64{16384, 8192, 4096, 2048}
	gyroLSBPerDegS = [...]float64{131, 65.5, 32.8, 16.4}
	accelRangeG    = [...]int{2, 4, 8, 16}
	gyroRangeDegS  = [...]int{250, 500, 1000, 2000}
)

// CheckRanges rejects range selectors the chip does not have.
func CheckRanges(accel, gyro byte) error {
	if int(accel) >= len(accelLSBPerG) {
		return fmt.Errorf("accel range %d out of [0,3]", accel)
	}
	if int(gyro) >= len(gyroLSBPerDegS) {
		return fmt.Errorf("gyro range %d out of [0,3]", gyro)
	}
	return nil
}

// AccelScale is the size of one accelerometer count in g.
func AccelScale(rng byte) float64 {
	return 1 / accelLSBPerG[rng]
}

// GyroScale is the size of one gyroscope count in rad/s.
func GyroScale(rng byte) float64 {
	return math.Pi / 180 / gyroLSBPerDegS[rng]
}
