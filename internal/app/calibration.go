// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/relabs-tech/direction_finder/internal/compass"
	"github.com/relabs-tech/direction_finder/internal/config"
)

// RunCompassCalibration samples the magnetometer for dur while the user
// turns the device through full circles, then prints the COMPASS_* lines to
// paste into the config file.
func RunCompassCalibration(in *bufio.Reader, out io.Writer, dur time.Duration) error {
	cfg := config.Get()
	if cfg == nil {
		return fmt.Errorf("calibration: config not initialised")
	}

	dev, bus, err := openCompass(cfg)
	if err != nil {
		return err
	}
	defer bus.Close()

	fmt.Fprintln(out, "Hold the device level and turn it slowly through at least two full circles.")
	fmt.Fprintf(out, "Press ENTER to start the %v capture...", dur)
	_, _ = in.ReadString('\n')

	interval := cfg.CompassInterval()
	n := int(dur / interval)
	cal, err := collectCalibration(dev, n, func() { time.Sleep(interval) })
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "# magnetometer calibration, "+time.Now().Format(time.RFC3339))
	fmt.Fprint(out, FormatCalibration(cal))
	return nil
}

// collectCalibration reads n samples from src, calling wait between reads.
// Read errors are skipped.
func collectCalibration(src compass.Source, n int, wait func()) (compass.Calibration, error) {
	var c compass.Calibrator
	for i := 0; i < n; i++ {
		if f, err := src.Next(); err == nil {
			c.Add(f)
		}
		if wait != nil {
			wait()
		}
	}
	return c.Calibration()
}

// FormatCalibration renders cal as config file lines.
func FormatCalibration(cal compass.Calibration) string {
	return fmt.Sprintf(
		"COMPASS_OFFSET_X=%.3f\nCOMPASS_OFFSET_Y=%.3f\nCOMPASS_SCALE_X=%.5f\nCOMPASS_SCALE_Y=%.5f\n",
		cal.OffsetX, cal.OffsetY, cal.ScaleX, cal.ScaleY,
	)
}
