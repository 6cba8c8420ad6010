// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package display renders direction frames for a 128x64 SSD1306 OLED.
// Everything here draws into memory; pushing frames to the panel is the
// caller's job.
package display

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/direction_finder/internal/geo"
	"github.com/relabs-tech/direction_finder/internal/navigation"
)

// Panel geometry.
const (
	Width  = 128
	Height = 64
)

// Compass dial.
var (
	DialCentre = image.Pt(96, 32)
	DialRadius = 25
)

// arrowHeadLen is the length of each arrowhead barb in pixels.
const arrowHeadLen = 6

// NewFrame returns a blank frame the size of the panel.
func NewFrame() *image1bit.VerticalLSB {
	return image1bit.NewVerticalLSB(image.Rect(0, 0, Width, Height))
}

// ArrowTip is the point on the dial rim for angleDeg, where 0 is straight up
// and angles grow clockwise.
func ArrowTip(angleDeg float64) image.Point {
	return pointOnDial(angleDeg, float64(DialRadius))
}

func pointOnDial(angleDeg, r float64) image.Point {
	a := geo.Radians(angleDeg)
	return image.Pt(
		DialCentre.X+int(math.Round(r*math.Sin(a))),
		DialCentre.Y-int(math.Round(r*math.Cos(a))),
	)
}

// RenderNavigation draws the dial with an arrow turned by the frame's turn
// angle, the distance in whole metres and the compass point of the bearing.
func RenderNavigation(f navigation.Frame) *image1bit.VerticalLSB {
	img := NewFrame()

	DrawCircle(img, DialCentre, DialRadius)
	turn := f.TurnAngleDeg()
	tip := ArrowTip(turn)
	DrawLine(img, DialCentre, tip)
	DrawLine(img, tip, pointOnDial(turn+180+25, arrowHeadLen).Add(tip.Sub(DialCentre)))
	DrawLine(img, tip, pointOnDial(turn+180-25, arrowHeadLen).Add(tip.Sub(DialCentre)))

	drawText(img, 5, 24, fmt.Sprintf("%dm", int(f.DistanceMeters)))
	drawText(img, 5, 44, f.Compass())
	if f.Stale {
		drawText(img, 5, 60, "stale")
	}
	return img
}

// RenderSplash is shown at start-up.
func RenderSplash() *image1bit.VerticalLSB {
	img := NewFrame()
	drawText(img, 10, 26, "Direction")
	drawText(img, 10, 43, "Finder")
	return img
}

// RenderWaiting is shown until the first navigation frame arrives.
func RenderWaiting() *image1bit.VerticalLSB {
	img := NewFrame()
	DrawCircle(img, DialCentre, DialRadius)
	drawText(img, 5, 24, "Waiting")
	drawText(img, 5, 39, "...")
	return img
}

func drawText(img *image1bit.VerticalLSB, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
