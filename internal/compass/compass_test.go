// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package compass

import (
	"errors"
	"math"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

func TestHeadingFromField(t *testing.T) {
	cases := []struct {
		x, y float64
		want float64
	}{
		{1, 0, 0},
		{0, 1, 90},
		{-1, 0, 180},
		{0, -1, 270},
		{1, 1, 45},
		{1, -1, 315},
		{0, 0, 0},
	}
	for _, c := range cases {
		got := HeadingFromField(c.x, c.y)
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("HeadingFromField(%v, %v) = %v, want %v", c.x, c.y, got, c.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("HeadingFromField(%v, %v) = %v out of range", c.x, c.y, got)
		}
	}
}

func TestCalibrationApply(t *testing.T) {
	cal := Calibration{OffsetX: 10, OffsetY: -20, ScaleX: 2, ScaleY: 0.5}
	x, y := cal.Apply(Field{X: 30, Y: -10})
	if x != 10 || y != 20 {
		t.Fatalf("Apply = (%v, %v), want (10, 20)", x, y)
	}
	if x, y := Identity.Apply(Field{X: 3, Y: 4}); x != 3 || y != 4 {
		t.Fatalf("Identity.Apply = (%v, %v)", x, y)
	}
}

func TestCalibrationValidate(t *testing.T) {
	if err := Identity.Validate(); err != nil {
		t.Fatalf("identity: %v", err)
	}
	bad := []Calibration{
		{},
		{ScaleX: 1},
		{ScaleX: 1, ScaleY: math.NaN()},
		{OffsetX: math.Inf(1), ScaleX: 1, ScaleY: 1},
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", c)
		}
	}
}

func TestCalibratorRecoversEllipse(t *testing.T) {
	// Field circle of radius 100 distorted into an offset ellipse.
	const (
		offX, offY = 35.0, -12.0
		radX, radY = 150.0, 50.0
	)
	var c Calibrator
	for deg := 0; deg < 360; deg += 5 {
		h := float64(deg) * math.Pi / 180
		c.Add(Field{X: offX + radX*math.Cos(h), Y: offY + radY*math.Sin(h)})
	}
	if c.Samples() != 72 {
		t.Fatalf("Samples = %d", c.Samples())
	}
	cal, err := c.Calibration()
	if err != nil {
		t.Fatalf("Calibration: %v", err)
	}
	if math.Abs(cal.OffsetX-offX) > 1e-9 || math.Abs(cal.OffsetY-offY) > 1e-9 {
		t.Fatalf("offsets = (%v, %v)", cal.OffsetX, cal.OffsetY)
	}
	if math.Abs(cal.ScaleX-1.5) > 1e-9 || math.Abs(cal.ScaleY-0.5) > 1e-9 {
		t.Fatalf("scales = (%v, %v)", cal.ScaleX, cal.ScaleY)
	}

	// After calibration the heading of a sample at 60° comes back as 60°.
	h := 60 * math.Pi / 180
	x, y := cal.Apply(Field{X: offX + radX*math.Cos(h), Y: offY + radY*math.Sin(h)})
	if got := HeadingFromField(x, y); math.Abs(got-60) > 1e-9 {
		t.Fatalf("calibrated heading = %v, want 60", got)
	}
}

func TestCalibratorNeedsSpread(t *testing.T) {
	var c Calibrator
	if _, err := c.Calibration(); !errors.Is(err, ErrNotEnoughSpread) {
		t.Fatalf("empty: got %v", err)
	}
	c.Add(Field{X: 1, Y: 1})
	c.Add(Field{X: 5, Y: 1})
	if _, err := c.Calibration(); !errors.Is(err, ErrNotEnoughSpread) {
		t.Fatalf("flat Y: got %v", err)
	}
}

func TestMockSourceRotates(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	now := base
	src := newMockSource(10, 30, func() time.Time { return now })

	for _, c := range []struct {
		after time.Duration
		want  float64
	}{
		{0, 10},
		{2 * time.Second, 70},
		{12 * time.Second, 10},
		{11 * time.Second, 340},
	} {
		now = base.Add(c.after)
		r, err := Read(src, Identity, now)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if math.Abs(r.HeadingDeg-c.want) > 1e-9 {
			t.Errorf("after %v: heading %v, want %v", c.after, r.HeadingDeg, c.want)
		}
		if r.Time != now.Format(time.RFC3339Nano) {
			t.Errorf("time = %q", r.Time)
		}
	}
}

type failingSource struct{}

func (failingSource) Next() (Field, error) { return Field{}, errors.New("bus gone") }

func TestReadPropagatesError(t *testing.T) {
	if _, err := Read(failingSource{}, Identity, time.Now()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestHMC5883LInitAndRead(t *testing.T) {
	bus := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: 0x1E, W: []byte{0x00, 0x70}},
			{Addr: 0x1E, W: []byte{0x01, 0x20}},
			{Addr: 0x1E, W: []byte{0x02, 0x00}},
			{Addr: 0x1E, W: []byte{0x0A}, R: []byte("H43")},
			// x=0, z=-5, y=300
			{Addr: 0x1E, W: []byte{0x03}, R: []byte{0x00, 0x00, 0xFF, 0xFB, 0x01, 0x2C}},
			// x=-4096 overflow
			{Addr: 0x1E, W: []byte{0x03}, R: []byte{0xF0, 0x00, 0x00, 0x00, 0x00, 0x00}},
		},
	}
	dev, err := NewHMC5883L(bus, 0)
	if err != nil {
		t.Fatalf("NewHMC5883L: %v", err)
	}
	id, err := dev.ID()
	if err != nil || id != "H43" {
		t.Fatalf("ID = %q, %v", id, err)
	}
	f, err := dev.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if f.X != 0 || f.Y != 300 || f.Z != -5 {
		t.Fatalf("field = %+v", f)
	}
	if got := HeadingFromField(f.X, f.Y); got != 90 {
		t.Fatalf("heading = %v, want 90", got)
	}
	if _, err := dev.Next(); err == nil {
		t.Fatalf("expected overflow error")
	}
	if err := bus.Close(); err != nil {
		t.Fatalf("playback not fully consumed: %v", err)
	}
}
