package renderer

import (
	"image"
	"image/color"
)

// contentBounds returns the smallest rectangle holding every pixel that
// differs from bg. The result is empty for a blank image.
func contentBounds(img *image.RGBA, bg color.RGBA) image.Rectangle {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Min.X, y)+4*b.Dx()]
		for x := 0; x < b.Dx(); x++ {
			px := row[4*x : 4*x+4]
			if px[0] == bg.R && px[1] == bg.G && px[2] == bg.B && px[3] == bg.A {
				continue
			}
			if b.Min.X+x < minX {
				minX = b.Min.X + x
			}
			if b.Min.X+x > maxX {
				maxX = b.Min.X + x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	if maxX < minX || maxY < minY {
		return image.Rectangle{}
	}
	return image.Rect(minX, minY, maxX+1, maxY+1)
}

// cropToContent trims img to its content plus pad pixels on every side,
// never growing past the original bounds. A blank image is returned as is.
func cropToContent(img *image.RGBA, bg color.RGBA, pad int) *image.RGBA {
	content := contentBounds(img, bg)
	if content.Empty() {
		return img
	}

	crop := image.Rect(content.Min.X-pad, content.Min.Y-pad, content.Max.X+pad, content.Max.Y+pad).Intersect(img.Bounds())

	// Copy so the result starts at the origin.
	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	for y := 0; y < crop.Dy(); y++ {
		src := img.Pix[img.PixOffset(crop.Min.X, crop.Min.Y+y) : img.PixOffset(crop.Min.X, crop.Min.Y+y)+4*crop.Dx()]
		copy(out.Pix[out.PixOffset(0, y):], src)
	}
	return out
}
