package window

import (
	"bytes"
	"errors"
	"io"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/zurustar/spritekit/pkg/graphics"
	"github.com/zurustar/spritekit/pkg/logger"
	"github.com/zurustar/spritekit/pkg/sprite"
)

// fakeInput はテストから入力を与える Input
type fakeInput struct {
	x, y          int
	clicked       bool
	rightClicked  bool
	middleClicked bool
	keys          map[ebiten.Key]bool
}

func (f *fakeInput) CursorPosition() (int, int) {
	return f.x, f.y
}

func (f *fakeInput) IsMouseButtonJustPressed(button ebiten.MouseButton) bool {
	switch button {
	case ebiten.MouseButtonLeft:
		return f.clicked
	case ebiten.MouseButtonRight:
		return f.rightClicked
	case ebiten.MouseButtonMiddle:
		return f.middleClicked
	default:
		return false
	}
}

func (f *fakeInput) IsKeyJustPressed(key ebiten.Key) bool {
	return f.keys[key]
}

func newBox(t *testing.T, w, h int) *graphics.RGBASurface {
	t.Helper()
	s, err := graphics.NewBoxSurface(w, h, color.White)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// failingSprite は Update フックでエラーを返す
type failingSprite struct {
	*sprite.DefaultSprite
	err error
}

func (f *failingSprite) Update() error {
	return f.err
}

func TestNewGame(t *testing.T) {
	game := NewGame(sprite.NewGroup(), Options{Size: image.Pt(320, 240), Timeout: 10 * time.Second})

	if game == nil {
		t.Fatal("NewGame returned nil")
	}
	if game.opts.Background != color.Black {
		t.Errorf("expected default black background, got %v", game.opts.Background)
	}
	if game.Overlay().IsEnabled() {
		t.Error("overlay should start disabled")
	}

	width, height := game.Layout(0, 0)
	if width != 320 || height != 240 {
		t.Errorf("Layout() = %dx%d, want 320x240", width, height)
	}
}

func TestUpdate_AdvancesGroup(t *testing.T) {
	anim := sprite.NewHypotrochoidAnimation(0, 90, image.Pt(100, 100), sprite.Hypotrochoid{A: 3, B: 1, H: 1})
	s := sprite.NewAnimatedSprite(newBox(t, 4, 4), image.Pt(0, 0), anim, nil)
	game := NewGame(sprite.NewGroup(s), Options{Size: image.Pt(200, 200)})
	game.SetInput(&fakeInput{})

	for i := 0; i < 2; i++ {
		if err := game.Update(); err != nil {
			t.Fatal(err)
		}
	}
	if game.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", game.Frames())
	}
	if s.Rect().Center() != image.Pt(99, 102) {
		t.Errorf("sprite center = %v, want (99,102)", s.Rect().Center())
	}
}

func TestUpdate_Timeout(t *testing.T) {
	game := NewGame(sprite.NewGroup(), Options{Timeout: time.Nanosecond})
	game.SetInput(&fakeInput{})

	time.Sleep(10 * time.Millisecond)

	if err := game.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("expected ebiten.Termination, got %v", err)
	}
}

func TestUpdate_Escape(t *testing.T) {
	game := NewGame(sprite.NewGroup(), Options{})
	game.SetInput(&fakeInput{keys: map[ebiten.Key]bool{ebiten.KeyEscape: true}})

	if err := game.Update(); !errors.Is(err, ebiten.Termination) {
		t.Errorf("expected ebiten.Termination, got %v", err)
	}
}

func TestUpdate_ToggleOverlay(t *testing.T) {
	game := NewGame(sprite.NewGroup(), Options{Overlay: true})
	in := &fakeInput{keys: map[ebiten.Key]bool{ebiten.KeyF1: true}}
	game.SetInput(in)

	if err := game.Update(); err != nil {
		t.Fatal(err)
	}
	if game.Overlay().IsEnabled() {
		t.Error("F1 should toggle the overlay off")
	}
}

func TestUpdate_ClickKillsTopmost(t *testing.T) {
	back := sprite.NewSprite(newBox(t, 20, 20), image.Pt(50, 50))
	front := sprite.NewSprite(newBox(t, 10, 10), image.Pt(50, 50))
	group := sprite.NewGroup(back, front)
	game := NewGame(group, Options{})
	in := &fakeInput{x: 50, y: 50, clicked: true}
	game.SetInput(in)

	if err := game.Update(); err != nil {
		t.Fatal(err)
	}
	if !front.IsKilled() || back.IsKilled() {
		t.Error("only the front sprite should be killed")
	}
	if group.Len() != 1 || group.Has(front) {
		t.Error("killed sprite should be removed in the same update")
	}

	// 何もない場所のクリックは何もしない
	in.x, in.y = 300, 300
	if err := game.Update(); err != nil {
		t.Fatal(err)
	}
	if group.Len() != 1 {
		t.Error("click on empty space removed a sprite")
	}
	if !strings.Contains(game.hudText(60), "killed: 1") {
		t.Errorf("unexpected HUD text %q", game.hudText(60))
	}
}

func TestUpdate_ClickReorders(t *testing.T) {
	back := sprite.NewSprite(newBox(t, 20, 20), image.Pt(50, 50))
	middle := sprite.NewSprite(newBox(t, 4, 4), image.Pt(150, 150))
	front := sprite.NewSprite(newBox(t, 10, 10), image.Pt(50, 50))
	group := sprite.NewGroup(back, middle, front)
	game := NewGame(group, Options{})

	// 右クリック: カーソル下の最前面（front）を最前面へ。順序は変わらない
	in := &fakeInput{x: 50, y: 50, rightClicked: true}
	game.SetInput(in)
	if err := game.Update(); err != nil {
		t.Fatal(err)
	}
	if got := group.Sprites(); got[0] != back || got[1] != middle || got[2] != front {
		t.Fatal("right click on the topmost sprite should keep the order")
	}

	// 中クリック: front を最背面へ。次のクリックでは back が拾われる
	in.rightClicked, in.middleClicked = false, true
	if err := game.Update(); err != nil {
		t.Fatal(err)
	}
	if got := group.Sprites(); got[0] != front || got[1] != back || got[2] != middle {
		t.Fatalf("middle click should send front to back, got %v", group.PrintDrawOrder())
	}

	// 右クリック: 今度は back が最前面へ
	in.middleClicked, in.rightClicked = false, true
	if err := game.Update(); err != nil {
		t.Fatal(err)
	}
	if got := group.Sprites(); got[0] != front || got[1] != middle || got[2] != back {
		t.Fatalf("right click should bring back to front, got %v", group.PrintDrawOrder())
	}
	if back.IsKilled() || front.IsKilled() {
		t.Error("reordering must not kill sprites")
	}
}

func TestUpdate_DebugKeys(t *testing.T) {
	var buf bytes.Buffer
	if err := logger.InitLoggerWithWriter("debug", &buf); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		logger.InitLoggerWithWriter("info", io.Discard)
	})

	group := sprite.NewGroup(sprite.NewSprite(newBox(t, 2, 2), image.Pt(1, 1)))
	game := NewGame(group, Options{})
	game.SetInput(&fakeInput{keys: map[ebiten.Key]bool{ebiten.KeyF2: true, ebiten.KeyF3: true}})

	if err := game.Update(); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Draw order") || !strings.Contains(out, "Draw Order:") {
		t.Errorf("F2 should log the draw order, got %q", out)
	}
	if game.Overlay().Options().ShowLabels {
		t.Error("F3 should hide overlay labels")
	}
	if !game.Overlay().Options().ShowBoundingBoxes {
		t.Error("F3 must not change bounding boxes")
	}
}

func TestUpdate_GroupError(t *testing.T) {
	hookErr := errors.New("script failed")
	s := &failingSprite{DefaultSprite: sprite.NewSprite(newBox(t, 1, 1), image.Pt(0, 0)), err: hookErr}
	game := NewGame(sprite.NewGroup(s), Options{})
	game.SetInput(&fakeInput{})

	if err := game.Update(); !errors.Is(err, hookErr) {
		t.Errorf("expected hook error, got %v", err)
	}
	if game.Frames() != 0 {
		t.Error("failed frame should not be counted")
	}
}

func TestHUDText(t *testing.T) {
	group := sprite.NewGroup()
	for i := 0; i < 3; i++ {
		group.Add(sprite.NewSprite(newBox(t, 1, 1), image.Pt(i, i)))
	}
	game := NewGame(group, Options{})
	game.frames = 12345

	got := game.hudText(59.94)
	want := "sprites: 3  killed: 0  frame: 12,345  tps: 59.9"
	if got != want {
		t.Errorf("hudText() = %q, want %q", got, want)
	}
}

func TestOverlayLabelAndColor(t *testing.T) {
	anim := sprite.NewHypotrochoidAnimation(0, 1, image.Pt(0, 0), sprite.Hypotrochoid{A: 3, B: 1, H: 1})
	moving := sprite.NewAnimatedSprite(newBox(t, 4, 4), image.Pt(10, 20), anim, nil)
	still := sprite.NewSprite(newBox(t, 4, 4), image.Pt(5, 5))

	if got := overlayLabel(2, moving); got != "#2 (10,20)" {
		t.Errorf("overlayLabel = %q", got)
	}
	if boxColor(moving, nil) != overlayAnimBoxColor {
		t.Error("animated sprite should use the animation color")
	}
	if boxColor(still, still) != overlayPickedBoxColor {
		t.Error("picked sprite should be highlighted")
	}
	if boxColor(still, moving) != overlayBoxColor {
		t.Error("unexpected color for plain sprite")
	}

	still.Kill()
	if got := overlayLabel(0, still); got != "#0 (5,5) K" {
		t.Errorf("overlayLabel = %q", got)
	}
	if boxColor(still, still) != overlayKilledBoxColor {
		t.Error("killed sprite should use the killed color")
	}
}
