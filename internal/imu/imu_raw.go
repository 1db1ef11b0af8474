// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package imu holds raw inertial readings as they come off the chip.
package imu

// IMURaw represents a single raw accelerometer and gyroscope sample, in
// chip counts.
type IMURaw struct {
	Source string `json:"source"` // device name, for logs

	Ax int16 `json:"ax"` // accel
	Ay int16 `json:"ay"`
	Az int16 `json:"az"`

	Gx int16 `json:"gx"` // gyro
	Gy int16 `json:"gy"`
	Gz int16 `json:"gz"`
}

// RawReader is anything that can be polled for raw samples.
type RawReader interface {
	ReadRaw() (IMURaw, error)
}
