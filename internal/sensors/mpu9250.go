// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/devices/v3/mpu9250"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/ar_navigator/internal/imu"
)

// MPU9250Options selects the chip and its ranges.
type MPU9250Options struct {
	Name       string // for logs
	SPIDevice  string // e.g. /dev/spidev0.0
	CSPin      string // GPIO name of chip select
	AccelRange byte
	GyroRange  byte
}

type mpuReader struct {
	name string
	imu  *mpu9250.MPU9250
}

// NewMPU9250Reader initializes an MPU9250 over SPI, self-tests and
// calibrates it.
func NewMPU9250Reader(opts MPU9250Options) (imu.RawReader, error) {
	name := opts.Name
	if err := CheckRanges(opts.AccelRange, opts.GyroRange); err != nil {
		return nil, fmt.Errorf("%s IMU: %w", name, err)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("%s IMU: periph host init: %w", name, err)
	}

	cs := gpioreg.ByName(opts.CSPin)
	if cs == nil {
		return nil, fmt.Errorf("%s IMU: CS pin %q not found", name, opts.CSPin)
	}

	tr, err := mpu9250.NewSpiTransport(opts.SPIDevice, cs)
	if err != nil {
		return nil, fmt.Errorf("%s IMU: SPI transport (%s): %w", name, opts.SPIDevice, err)
	}

	dev, err := mpu9250.New(*tr)
	if err != nil {
		return nil, fmt.Errorf("%s IMU: device creation: %w", name, err)
	}

	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("%s IMU: initialization: %w", name, err)
	}

	if err := dev.SetAccelRange(opts.AccelRange); err != nil {
		return nil, fmt.Errorf("%s IMU: set accel range: %w", name, err)
	}
	if err := dev.SetGyroRange(opts.GyroRange); err != nil {
		return nil, fmt.Errorf("%s IMU: set gyro range: %w", name, err)
	}
	log.Info().
		Str("imu", name).
		Int("accel_g", accelRangeG[opts.AccelRange]).
		Int("gyro_dps", gyroRangeDegS[opts.GyroRange]).
		Msg("ranges set")

	if _, err := dev.SelfTest(); err != nil {
		log.Warn().Err(err).Str("imu", name).Msg("self-test failed")
	}
	if err := dev.Calibrate(); err != nil {
		log.Warn().Err(err).Str("imu", name).Msg("calibration failed")
	} else {
		log.Info().Str("imu", name).Msg("calibration complete")
	}

	return &mpuReader{name: name, imu: dev}, nil
}

// ReadRaw reads accelerometer and gyroscope counts.
func (s *mpuReader) ReadRaw() (imu.IMURaw, error) {
	ax, err := s.imu.GetAccelerationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel X: %w", s.name, err)
	}
	ay, err := s.imu.GetAccelerationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel Y: %w", s.name, err)
	}
	az, err := s.imu.GetAccelerationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU accel Z: %w", s.name, err)
	}

	gx, err := s.imu.GetRotationX()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro X: %w", s.name, err)
	}
	gy, err := s.imu.GetRotationY()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro Y: %w", s.name, err)
	}
	gz, err := s.imu.GetRotationZ()
	if err != nil {
		return imu.IMURaw{}, fmt.Errorf("%s IMU gyro Z: %w", s.name, err)
	}

	return imu.IMURaw{
		Source: s.name,
		Ax:     ax,
		Ay:     ay,
		Az:     az,
		Gx:     gx,
		Gy:     gy,
		Gz:     gz,
	}, nil
}
