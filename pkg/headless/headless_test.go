package headless

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/zurustar/spritekit/pkg/clock"
	"github.com/zurustar/spritekit/pkg/graphics"
	"github.com/zurustar/spritekit/pkg/sprite"
)

var red = color.RGBA{R: 255, A: 255}

// lifetimeSprite は指定回数の Update 後に自分を Kill する
type lifetimeSprite struct {
	*sprite.DefaultSprite
	ttl int
}

func (s *lifetimeSprite) Update() error {
	s.ttl--
	if s.ttl <= 0 {
		s.Kill()
	}
	return nil
}

func newRedBox(t *testing.T, center image.Point) *sprite.DefaultSprite {
	t.Helper()
	img, err := graphics.NewBoxSurface(4, 4, red)
	if err != nil {
		t.Fatal(err)
	}
	return sprite.NewSprite(img, center)
}

// fakeClock はスリープせずに進む Clock を返す
func fakeClock(slept *time.Duration) *clock.Clock {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return clock.NewWithSource(
		func() time.Time { return now },
		func(d time.Duration) {
			*slept += d
			now = now.Add(d)
		},
	)
}

func TestRunner_FrameCount(t *testing.T) {
	group := sprite.NewGroup(newRedBox(t, image.Pt(10, 10)))
	var seen []int
	r, err := NewRunner(group, Options{
		Size:   image.Pt(32, 32),
		Frames: 5,
		OnFrame: func(frame int, screen *graphics.RGBASurface) error {
			seen = append(seen, frame)
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Frames != 5 || res.Reason != StopFrames || res.Remaining != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(seen) != 5 || seen[0] != 0 || seen[4] != 4 {
		t.Errorf("OnFrame frames = %v", seen)
	}

	// 背景は黒、スプライトは (8,8)-(12,12) に描画される
	img := r.Screen().Image()
	if got := img.RGBAAt(10, 10); got != red {
		t.Errorf("sprite pixel = %v, want red", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{A: 255}) {
		t.Errorf("background pixel = %v, want black", got)
	}
}

func TestRunner_StopsWhenEmpty(t *testing.T) {
	s := &lifetimeSprite{DefaultSprite: newRedBox(t, image.Pt(5, 5)), ttl: 3}
	r, err := NewRunner(sprite.NewGroup(s), Options{Size: image.Pt(16, 16), Background: color.White})
	if err != nil {
		t.Fatal(err)
	}

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != StopEmpty || res.Frames != 3 || res.Remaining != 0 {
		t.Errorf("unexpected result %+v", res)
	}
	// 最後のフレームでは Kill されたスプライトは既に取り除かれている
	if got := r.Screen().Image().RGBAAt(5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected background after removal, got %v", got)
	}
}

func TestRunner_Canceled(t *testing.T) {
	group := sprite.NewGroup(newRedBox(t, image.Pt(5, 5)))
	ctx, cancel := context.WithCancel(context.Background())
	r, err := NewRunner(group, Options{
		Size: image.Pt(16, 16),
		OnFrame: func(frame int, _ *graphics.RGBASurface) error {
			if frame == 9 {
				cancel()
			}
			return nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	res, err := r.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if res.Reason != StopCanceled || res.Frames != 10 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRunner_FrameRatePacing(t *testing.T) {
	group := sprite.NewGroup(newRedBox(t, image.Pt(5, 5)))
	r, err := NewRunner(group, Options{Size: image.Pt(16, 16), Frames: 4, FrameRate: 100})
	if err != nil {
		t.Fatal(err)
	}
	var slept time.Duration
	r.SetClock(fakeClock(&slept))

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// 4フレームで 40ms 分待つ
	if slept != 40*time.Millisecond {
		t.Errorf("slept %v, want 40ms", slept)
	}
}

func TestRunner_Errors(t *testing.T) {
	if _, err := NewRunner(sprite.NewGroup(), Options{Size: image.Pt(0, 10)}); !errors.Is(err, graphics.ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := NewRunner(sprite.NewGroup(), Options{Size: image.Pt(10, 10), Frames: -1}); err == nil {
		t.Error("expected error for negative frames")
	}

	hookErr := errors.New("disk full")
	r, err := NewRunner(sprite.NewGroup(newRedBox(t, image.Pt(1, 1))), Options{
		Size:    image.Pt(8, 8),
		Frames:  3,
		OnFrame: func(int, *graphics.RGBASurface) error { return hookErr },
	})
	if err != nil {
		t.Fatal(err)
	}
	res, err := r.Run(context.Background())
	if !errors.Is(err, hookErr) {
		t.Errorf("expected hook error, got %v", err)
	}
	if res == nil || res.Frames != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestRunner_SaveSnapshot(t *testing.T) {
	r, err := NewRunner(sprite.NewGroup(newRedBox(t, image.Pt(4, 4))), Options{Size: image.Pt(8, 8), Frames: 1})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := r.SaveSnapshot(path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Errorf("snapshot bounds = %v", img.Bounds())
	}
	if cr, cg, cb, ca := img.At(4, 4).RGBA(); cr != 0xffff || cg != 0 || cb != 0 || ca != 0xffff {
		t.Errorf("snapshot pixel = %v", img.At(4, 4))
	}

	if err := r.SaveSnapshot(filepath.Join(t.TempDir(), "missing", "out.png")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSummary(t *testing.T) {
	got := Summary(&Result{Frames: 1200, Remaining: 4, Elapsed: 20 * time.Second})
	if got != "1,200 frames, 4 sprites remaining, 60.0 fps" {
		t.Errorf("Summary() = %q", got)
	}
	if !strings.HasPrefix(Summary(&Result{}), "0 frames") {
		t.Error("zero result should not divide by zero")
	}
}
