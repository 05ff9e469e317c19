// Package export renders trajectory data to standalone SVG images:
// observable time series pulled from stored samples, and dot snapshots
// of a Braille canvas.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/beadmd/internal/run"
	"github.com/san-kum/beadmd/internal/viz"
)

// CanvasToSVG rasterizes each lit Braille dot of the canvas as a
// circle, preserving the 2x4 sub-pixel geometry.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			r := canvas.Grid[row][col]
			if r < 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots one sample column against time as a polyline.
// Valid columns are the entries of run.Columns other than "time".
func SeriesToSVG(samples []run.Sample, column string, width, height int) (string, error) {
	if len(samples) < 2 {
		return "", fmt.Errorf("export: need at least 2 samples, have %d", len(samples))
	}
	pick, err := columnPicker(column)
	if err != nil {
		return "", err
	}

	minX, maxX := samples[0].Time, samples[len(samples)-1].Time
	minY, maxY := pick(samples[0]), pick(samples[0])
	for _, s := range samples {
		v := pick(s)
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<text x="8" y="16" fill="#888888" font-family="monospace" font-size="12">%s</text>
<path fill="none" stroke="#00ff88" stroke-width="1.5" d="M`,
		width, height, width, height, column))

	for i, s := range samples {
		x := (s.Time - minX) / rangeX * float64(width)
		y := float64(height) - (pick(s)-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String(), nil
}

// SeriesSVGFile writes SeriesToSVG output to path.
func SeriesSVGFile(path string, samples []run.Sample, column string, width, height int) error {
	svg, err := SeriesToSVG(samples, column, width, height)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(svg), 0o644)
}

func columnPicker(column string) (func(run.Sample) float64, error) {
	switch column {
	case "kinetic":
		return func(s run.Sample) float64 { return s.Kinetic }, nil
	case "potential":
		return func(s run.Sample) float64 { return s.Potential }, nil
	case "spring":
		return func(s run.Sample) float64 { return s.Spring }, nil
	case "conserved":
		return func(s run.Sample) float64 { return s.Conserved }, nil
	case "temperature":
		return func(s run.Sample) float64 { return s.Temperature }, nil
	case "volume":
		return func(s run.Sample) float64 { return s.Volume }, nil
	default:
		return nil, fmt.Errorf("export: unknown column %q", column)
	}
}
