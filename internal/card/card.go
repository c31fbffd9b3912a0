// Package card renders a saved memory entry into a fixed-format shareable
// image. Purely derived output: it reads an entry and its photo, holds no
// state of its own.
package card

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/keepsakehq/keepsake/internal/journal"
	"github.com/keepsakehq/keepsake/internal/store"
)

const (
	cardW = 1080
	pad   = 72

	headerH       = 170
	photoH        = 720
	gapAfterPhoto = 54
	labelH        = 44
	labelGap      = 22
	sectionGap    = 26
	lineH         = 52

	cornerR = 44
)

var (
	titleFace font.Face
	subFace   font.Face
	labelFace font.Face
	bodyFace  font.Face
	smallFace font.Face
)

func init() {
	regular, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("card: parse regular font: %v", err))
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		panic(fmt.Sprintf("card: parse bold font: %v", err))
	}

	face := func(f *truetype.Font, size float64) font.Face {
		return truetype.NewFace(f, &truetype.Options{Size: size})
	}
	titleFace = face(bold, 48)
	subFace = face(regular, 34)
	labelFace = face(bold, 34)
	bodyFace = face(regular, 38)
	smallFace = face(regular, 30)
}

// Render lays out the memory card for an entry. The photo is the raw stored
// blob; an undecodable or missing photo renders the placeholder panel
// instead of failing.
func Render(e *store.Entry, photo []byte) (image.Image, error) {
	if e == nil {
		return nil, fmt.Errorf("render card: nil entry")
	}

	// Wrap the reflection first: the card height depends on it.
	measure := gg.NewContext(1, 1)
	measure.SetFontFace(bodyFace)
	lines := measure.WordWrap(e.Reflection, float64(cardW-2*pad))

	reflectionH := lineH
	if len(lines) > 0 {
		reflectionH = len(lines) * lineH
	}
	footerH := 70
	if e.Category != "" {
		footerH = 110
	}
	totalH := pad + headerH + photoH + gapAfterPhoto + labelH + labelGap +
		reflectionH + sectionGap + footerH + pad

	dc := gg.NewContext(cardW, totalH)

	// Background and card surface
	dc.SetHexColor("#fff5f8")
	dc.Clear()
	dc.SetRGBA(1, 1, 1, 0.5)
	dc.DrawRoundedRectangle(28, 28, float64(cardW-56), float64(totalH-56), cornerR)
	dc.Fill()

	// Header: title, date, mood
	y := float64(pad)
	dc.SetHexColor("#2b2b2b")
	dc.SetFontFace(titleFace)
	dc.DrawString("Keepsake", pad, y+54)

	dc.SetHexColor("#5a5a5a")
	dc.SetFontFace(subFace)
	dc.DrawString(journal.PrettyDayKey(e.DayKey), pad, y+110)

	dc.SetHexColor("#2b2b2b")
	dc.DrawString(e.Mood, pad, y+155)

	y += headerH

	// Photo, cover-cropped under rounded corners
	photoW := float64(cardW - 2*pad)
	dc.SetRGBA(0, 0, 0, 0.12)
	dc.DrawRoundedRectangle(pad+8, y+10, photoW, photoH, cornerR)
	dc.Fill()

	dc.DrawRoundedRectangle(pad, y, photoW, photoH, cornerR)
	dc.Clip()
	if img := decodePhoto(photo); img != nil {
		dc.DrawImage(coverCrop(img, int(photoW), photoH), pad, int(y))
	} else {
		dc.SetHexColor("#ffe2ea")
		dc.DrawRectangle(pad, y, photoW, photoH)
		dc.Fill()
		dc.SetHexColor("#8a8a8a")
		dc.SetFontFace(subFace)
		dc.DrawString("Photo unavailable", pad+40, y+80)
	}
	dc.ResetClip()

	y += photoH + gapAfterPhoto

	// Reflection
	dc.SetHexColor("#2b2b2b")
	dc.SetFontFace(labelFace)
	dc.DrawString("Reflection", pad, y+36)
	y += labelH + labelGap

	dc.SetFontFace(bodyFace)
	if len(lines) == 0 {
		dc.DrawString("—", pad, y+10)
		y += lineH
	} else {
		for _, line := range lines {
			dc.DrawString(line, pad, y+10)
			y += lineH
		}
	}
	y += sectionGap

	// Footer
	dc.SetFontFace(smallFace)
	if e.Category != "" {
		dc.SetHexColor("#5a5a5a")
		dc.DrawString("Category: "+e.Category, pad, y+40)
		y += 56
	}
	dc.SetHexColor("#8a8a8a")
	dc.DrawString("Choose one moment worth keeping forever.", pad, y+40)

	return dc.Image(), nil
}

// EncodePNG writes the card image as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode card png: %w", err)
	}
	return nil
}

// Filename returns the share filename for a day's card.
func Filename(dayKey string) string {
	return fmt.Sprintf("keepsake-%s.png", dayKey)
}

func decodePhoto(photo []byte) image.Image {
	if len(photo) == 0 {
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(photo))
	if err != nil {
		return nil
	}
	return img
}

// coverCrop scales the photo to fill w x h, cropping the overflow around
// the center.
func coverCrop(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	if iw == 0 || ih == 0 {
		return image.NewRGBA(image.Rect(0, 0, w, h))
	}

	scale := math.Max(float64(w)/iw, float64(h)/ih)
	sw := float64(w) / scale
	sh := float64(h) / scale
	sx := float64(b.Min.X) + (iw-sw)/2
	sy := float64(b.Min.Y) + (ih-sh)/2

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src,
		image.Rect(int(sx), int(sy), int(sx+sw), int(sy+sh)), draw.Over, nil)
	return dst
}
