// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

import (
	"image"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

func set(img *image1bit.VerticalLSB, x, y int) {
	if image.Pt(x, y).In(img.Rect) {
		img.SetBit(x, y, image1bit.On)
	}
}

// DrawCircle draws a one pixel outline using the midpoint algorithm.
func DrawCircle(img *image1bit.VerticalLSB, c image.Point, r int) {
	x, y := r, 0
	err := 1 - r
	for x >= y {
		for _, d := range [...][2]int{
			{x, y}, {y, x}, {-y, x}, {-x, y},
			{-x, -y}, {-y, -x}, {y, -x}, {x, -y},
		} {
			set(img, c.X+d[0], c.Y+d[1])
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
}

// DrawLine draws from a to b inclusive (Bresenham).
func DrawLine(img *image1bit.VerticalLSB, a, b image.Point) {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	err := dx + dy
	x, y := a.X, a.Y
	for {
		set(img, x, y)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
