package card

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/keepsakehq/keepsake/internal/store"
)

func testPhotoPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test photo: %v", err)
	}
	return buf.Bytes()
}

func testEntry() *store.Entry {
	return &store.Entry{
		DayKey:     "2024-01-05",
		Mood:       "Joyful",
		MoodGlyph:  "😊",
		Reflection: "We walked along the shore until the light went soft and neither of us wanted to go home.",
		Category:   "family",
	}
}

func TestRenderDimensions(t *testing.T) {
	photo := testPhotoPNG(t, 640, 480)
	img, err := Render(testEntry(), photo)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	b := img.Bounds()
	if b.Dx() != cardW {
		t.Errorf("width = %d, want %d", b.Dx(), cardW)
	}
	if b.Dy() <= photoH {
		t.Errorf("height = %d, want more than the photo panel", b.Dy())
	}
}

func TestRenderDeterministic(t *testing.T) {
	photo := testPhotoPNG(t, 320, 240)
	e := testEntry()

	var a, b bytes.Buffer
	img1, err := Render(e, photo)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img2, err := Render(e, photo)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := EncodePNG(&a, img1); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if err := EncodePNG(&b, img2); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("same entry rendered differently across calls")
	}
}

func TestRenderBadPhotoFallsBack(t *testing.T) {
	img, err := Render(testEntry(), []byte("not an image"))
	if err != nil {
		t.Fatalf("Render with bad photo: %v", err)
	}
	if img.Bounds().Dx() != cardW {
		t.Errorf("width = %d, want %d", img.Bounds().Dx(), cardW)
	}
}

func TestRenderLongReflectionGrowsCard(t *testing.T) {
	photo := testPhotoPNG(t, 100, 100)

	short := testEntry()
	short.Reflection = "Short."
	long := testEntry()
	long.Reflection = ""
	for i := 0; i < 30; i++ {
		long.Reflection += "a sentence that keeps going and wraps across many rendered lines "
	}

	imgShort, err := Render(short, photo)
	if err != nil {
		t.Fatalf("Render short: %v", err)
	}
	imgLong, err := Render(long, photo)
	if err != nil {
		t.Fatalf("Render long: %v", err)
	}
	if imgLong.Bounds().Dy() <= imgShort.Bounds().Dy() {
		t.Errorf("long card %d not taller than short card %d",
			imgLong.Bounds().Dy(), imgShort.Bounds().Dy())
	}
}

func TestFilename(t *testing.T) {
	if got := Filename("2024-01-05"); got != "keepsake-2024-01-05.png" {
		t.Errorf("Filename = %q", got)
	}
}
