package graphics

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
	"testing/fstest"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeGIF(t *testing.T, colors []color.Color) []byte {
	t.Helper()
	g := &gif.GIF{}
	pal := color.Palette(colors)
	for _, c := range colors {
		frame := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				frame.Set(x, y, c)
			}
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, 5)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadSurface(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	src.Set(2, 3, color.RGBA{R: 255, A: 255})
	fsys := fstest.MapFS{
		"images/ball.png": {Data: encodePNG(t, src)},
	}

	s, err := LoadSurface(fsys, "images/ball.png")
	if err != nil {
		t.Fatalf("LoadSurface failed: %v", err)
	}
	w, h := s.Size()
	if w != 8 || h != 6 {
		t.Errorf("expected 8x6, got %dx%d", w, h)
	}
	if s.Image().RGBAAt(2, 3) != (color.RGBA{R: 255, A: 255}) {
		t.Error("pixel not preserved")
	}
}

func TestLoadSurface_Errors(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.png": {Data: []byte("not an image")},
	}
	if _, err := LoadSurface(fsys, "missing.png"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadSurface(fsys, "broken.png"); err == nil {
		t.Error("expected error for undecodable file")
	}
}

func TestLoadFrames(t *testing.T) {
	fsys := fstest.MapFS{
		"anim.gif": {Data: encodeGIF(t, []color.Color{
			color.RGBA{R: 255, A: 255},
			color.RGBA{G: 255, A: 255},
			color.RGBA{B: 255, A: 255},
		})},
	}

	frames, err := LoadFrames(fsys, "anim.gif")
	if err != nil {
		t.Fatalf("LoadFrames failed: %v", err)
	}
	if len(frames.Surfaces) != 3 || len(frames.Delays) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(frames.Surfaces))
	}
	if frames.Delays[0].Milliseconds() != 50 {
		t.Errorf("expected 50ms delay, got %v", frames.Delays[0])
	}
	if got := frames.Surfaces[1].Image().RGBAAt(0, 0); got.G != 255 || got.R != 0 {
		t.Errorf("frame 1 pixel = %+v", got)
	}
}

func TestLoadFrames_NotGIF(t *testing.T) {
	fsys := fstest.MapFS{
		"still.png": {Data: encodePNG(t, image.NewRGBA(image.Rect(0, 0, 2, 2)))},
	}
	if _, err := LoadFrames(fsys, "still.png"); err == nil {
		t.Error("expected error for non-gif input")
	}
}

func TestNewCircleSurface(t *testing.T) {
	s, err := NewCircleSurface(10, color.RGBA{R: 255, A: 255})
	if err != nil {
		t.Fatal(err)
	}
	w, h := s.Size()
	if w != 20 || h != 20 {
		t.Errorf("expected 20x20, got %dx%d", w, h)
	}
	if c := s.Image().RGBAAt(10, 10); c.A != 255 {
		t.Errorf("center should be opaque, got %+v", c)
	}
	if c := s.Image().RGBAAt(0, 0); c.A != 0 {
		t.Errorf("corner should be transparent, got %+v", c)
	}

	if _, err := NewCircleSurface(0, color.White); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}
