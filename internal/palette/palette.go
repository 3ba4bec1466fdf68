// Package palette provides the fixed color table used for annotation drawing.
package palette

import "github.com/pigubaoza/gst-watermark/internal/pixel"

// table holds 18 mutually distinguishable RGB colors. Index lookups wrap, so
// arbitrary object or class ids always resolve to a color.
var table = []pixel.RGB{
	{R: 255, G: 0, B: 0},
	{R: 0, G: 255, B: 0},
	{R: 0, G: 0, B: 255},
	{R: 255, G: 255, B: 0},
	{R: 0, G: 255, B: 255},
	{R: 255, G: 0, B: 255},
	{R: 255, G: 170, B: 0},
	{R: 255, G: 0, B: 170},
	{R: 0, G: 255, B: 170},
	{R: 170, G: 255, B: 0},
	{R: 170, G: 0, B: 255},
	{R: 0, G: 170, B: 255},
	{R: 255, G: 85, B: 0},
	{R: 85, G: 255, B: 0},
	{R: 0, G: 255, B: 85},
	{R: 0, G: 85, B: 255},
	{R: 85, G: 0, B: 255},
	{R: 255, G: 0, B: 85},
}

// Size returns the number of distinct palette entries.
func Size() int {
	return len(table)
}

// Lookup returns the palette color for index, wrapping modulo the table
// size. Deterministic: the same index always yields the same color.
func Lookup(index int) pixel.RGB {
	if index < 0 {
		index = -index
	}
	return table[index%len(table)]
}
