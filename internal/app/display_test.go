// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/direction_finder/internal/display"
)

func TestAddrBusRewritesAddress(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{{Addr: 0x3D, W: []byte{0x00, 0xAF}}},
	}
	b := &addrBus{Bus: pb, addr: 0x3D}
	if err := b.Tx(0x3C, []byte{0x00, 0xAF}, nil); err != nil {
		t.Fatalf("Tx: %v", err)
	}
	if err := pb.Close(); err != nil {
		t.Fatalf("playback: %v", err)
	}
}

func TestDisplayStateRender(t *testing.T) {
	var s displayState
	waiting, ok := s.render().(*image1bit.VerticalLSB)
	if !ok {
		t.Fatalf("unexpected image type")
	}
	if string(waiting.Pix) != string(display.RenderWaiting().Pix) {
		t.Fatalf("expected waiting screen before first frame")
	}

	f := navFrame(250)
	s.set(f)
	got := s.render().(*image1bit.VerticalLSB)
	if string(got.Pix) != string(display.RenderNavigation(f).Pix) {
		t.Fatalf("expected navigation screen after first frame")
	}
}
