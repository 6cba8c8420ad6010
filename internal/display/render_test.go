// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"image"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/direction_finder/internal/navigation"
)

func lit(img *image1bit.VerticalLSB, x, y int) bool {
	return img.BitAt(x, y) == image1bit.On
}

func countLit(img *image1bit.VerticalLSB, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if lit(img, x, y) {
				n++
			}
		}
	}
	return n
}

func TestArrowTip(t *testing.T) {
	cases := []struct {
		deg  float64
		want image.Point
	}{
		{0, image.Pt(96, 7)},
		{90, image.Pt(121, 32)},
		{180, image.Pt(96, 57)},
		{270, image.Pt(71, 32)},
		{360, image.Pt(96, 7)},
		{-90, image.Pt(71, 32)},
	}
	for _, c := range cases {
		if got := ArrowTip(c.deg); got != c.want {
			t.Errorf("ArrowTip(%v) = %v, want %v", c.deg, got, c.want)
		}
	}
}

func TestDrawCircle(t *testing.T) {
	img := NewFrame()
	DrawCircle(img, DialCentre, DialRadius)
	for _, p := range []image.Point{{96, 7}, {121, 32}, {96, 57}, {71, 32}} {
		if !lit(img, p.X, p.Y) {
			t.Errorf("expected rim pixel %v lit", p)
		}
	}
	if lit(img, 96, 32) {
		t.Errorf("centre should be dark")
	}
}

func TestDrawCircleClipsAtEdges(t *testing.T) {
	img := NewFrame()
	DrawCircle(img, image.Pt(0, 0), 10)
	if !lit(img, 10, 0) || !lit(img, 0, 10) {
		t.Fatalf("expected visible quarter of clipped circle")
	}
}

func TestDrawLine(t *testing.T) {
	img := NewFrame()
	DrawLine(img, image.Pt(10, 10), image.Pt(20, 10))
	if got := countLit(img, img.Bounds()); got != 11 {
		t.Fatalf("horizontal line lit %d pixels, want 11", got)
	}

	img = NewFrame()
	DrawLine(img, image.Pt(5, 5), image.Pt(0, 0))
	for i := 0; i <= 5; i++ {
		if !lit(img, i, i) {
			t.Errorf("diagonal pixel (%d,%d) not lit", i, i)
		}
	}
}

func frame(turn, distance float64) navigation.Frame {
	return navigation.Frame{Result: navigation.Result{
		CorrectedHeadingDeg: 0,
		BearingToTargetDeg:  turn,
		DistanceMeters:      distance,
	}}
}

func TestRenderNavigationArrowFollowsTurnAngle(t *testing.T) {
	east := RenderNavigation(frame(90, 1219.7))
	for x := 97; x <= 115; x++ {
		if !lit(east, x, 32) {
			t.Fatalf("arrow pixel (%d,32) not lit for 90°", x)
		}
	}
	if lit(east, 96, 20) {
		t.Fatalf("arrow drawn north for a 90° turn")
	}

	ahead := RenderNavigation(frame(0, 10))
	for y := 10; y <= 31; y++ {
		if !lit(ahead, 96, y) {
			t.Fatalf("arrow pixel (96,%d) not lit for 0°", y)
		}
	}
	if lit(ahead, 110, 32) {
		t.Fatalf("arrow drawn east for a 0° turn")
	}
}

func TestRenderNavigationText(t *testing.T) {
	img := RenderNavigation(frame(45, 1219.7))
	if countLit(img, image.Rect(0, 10, 64, 27)) == 0 {
		t.Fatalf("distance text not rendered")
	}
	if countLit(img, image.Rect(0, 30, 64, 47)) == 0 {
		t.Fatalf("compass text not rendered")
	}
	if countLit(img, image.Rect(0, 48, 64, 64)) != 0 {
		t.Fatalf("stale marker drawn for fresh frame")
	}

	f := frame(45, 10)
	f.Stale = true
	if countLit(RenderNavigation(f), image.Rect(0, 48, 64, 64)) == 0 {
		t.Fatalf("stale marker missing")
	}
}

func TestRenderDistanceTruncates(t *testing.T) {
	a := RenderNavigation(frame(0, 12.9))
	b := RenderNavigation(frame(0, 12.1))
	if string(a.Pix) != string(b.Pix) {
		t.Fatalf("12.9m and 12.1m should both render as 12m")
	}
}

func TestSplashAndWaiting(t *testing.T) {
	if countLit(RenderSplash(), image.Rect(0, 0, Width, Height)) == 0 {
		t.Fatalf("blank splash")
	}
	w := RenderWaiting()
	if !lit(w, 96, 7) {
		t.Fatalf("waiting screen should show the dial")
	}
	if countLit(w, image.Rect(0, 10, 64, 27)) == 0 {
		t.Fatalf("waiting text missing")
	}
}
