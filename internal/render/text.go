package render

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// face is the bitmap font used for labels. A fixed 7x13 face keeps glyph
// rasterization a plain mask walk with no scaling or anti-aliasing to undo
// when the coverage is replotted on subsampled planes.
var face font.Face = basicfont.Face7x13

// drawString plots the coverage mask of text with its baseline starting at
// dot. Runes outside the face's range fall back to the replacement glyph.
func drawString(text string, dot image.Point, set setter) {
	pos := fixed.P(dot.X, dot.Y)
	for _, r := range text {
		dr, mask, maskp, advance, ok := face.Glyph(pos, r)
		if !ok {
			dr, mask, maskp, advance, ok = face.Glyph(pos, '�')
			if !ok {
				continue
			}
		}
		for y := dr.Min.Y; y < dr.Max.Y; y++ {
			for x := dr.Min.X; x < dr.Max.X; x++ {
				_, _, _, a := mask.At(maskp.X+x-dr.Min.X, maskp.Y+y-dr.Min.Y).RGBA()
				if a >= 0x8000 {
					set(x, y)
				}
			}
		}
		pos.X += advance
	}
}
