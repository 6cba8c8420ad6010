// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package compass

import (
	"encoding/binary"
	"fmt"

	"periph.io/x/conn/v3/i2c"
)

// DefaultHMC5883LAddr is the fixed I2C address of the HMC5883L.
const DefaultHMC5883LAddr = 0x1E

// HMC5883L registers.
const (
	regConfigA = 0x00
	regConfigB = 0x01
	regMode    = 0x02
	regDataX   = 0x03 // X, Z, Y; big endian
	regIDA     = 0x0A
)

// Register values written at init.
const (
	configA8Avg15Hz   = 0x70 // 8 samples averaged, 15 Hz, normal measurement
	configBGain1_3Ga  = 0x20 // ±1.3 Ga, 1090 LSB/Ga
	modeContinuous    = 0x00
	dataOverflowValue = -4096
)

// HMC5883L reads the horizontal field from a Honeywell HMC5883L over I2C.
type HMC5883L struct {
	dev *i2c.Dev
}

// NewHMC5883L configures the sensor for continuous measurement.
func NewHMC5883L(bus i2c.Bus, addr uint16) (*HMC5883L, error) {
	if addr == 0 {
		addr = DefaultHMC5883LAddr
	}
	h := &HMC5883L{dev: &i2c.Dev{Bus: bus, Addr: addr}}
	for _, w := range [][]byte{
		{regConfigA, configA8Avg15Hz},
		{regConfigB, configBGain1_3Ga},
		{regMode, modeContinuous},
	} {
		if err := h.dev.Tx(w, nil); err != nil {
			return nil, fmt.Errorf("compass: write reg 0x%02X: %w", w[0], err)
		}
	}
	return h, nil
}

// ID returns the three identification bytes; "H43" on a genuine part.
func (h *HMC5883L) ID() (string, error) {
	id := make([]byte, 3)
	if err := h.dev.Tx([]byte{regIDA}, id); err != nil {
		return "", fmt.Errorf("compass: read id: %w", err)
	}
	return string(id), nil
}

// Next reads one X/Z/Y sample.
func (h *HMC5883L) Next() (Field, error) {
	buf := make([]byte, 6)
	if err := h.dev.Tx([]byte{regDataX}, buf); err != nil {
		return Field{}, fmt.Errorf("compass: read data: %w", err)
	}
	x := int16(binary.BigEndian.Uint16(buf[0:2]))
	z := int16(binary.BigEndian.Uint16(buf[2:4]))
	y := int16(binary.BigEndian.Uint16(buf[4:6]))
	if x == dataOverflowValue || y == dataOverflowValue || z == dataOverflowValue {
		return Field{}, fmt.Errorf("compass: measurement overflow (x=%d y=%d z=%d)", x, y, z)
	}
	return Field{X: float64(x), Y: float64(y), Z: float64(z)}, nil
}
