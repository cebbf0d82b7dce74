package sprite

import (
	"image"
	"image/color"

	"github.com/zurustar/spritekit/pkg/graphics"
)

// surfaceCall はモックサーフェスに対する呼び出しの記録
type surfaceCall struct {
	Op    string // "clone", "modulate", "fill", "blit", "release"
	On    string // 呼び出されたサーフェスのID
	Src   string // blit の転送元ID
	Pos   image.Point
	Mode  graphics.BlendMode
	Color color.Color
}

// recorder は複数のモックサーフェスで共有する呼び出し履歴
type recorder struct {
	calls []surfaceCall
}

func (r *recorder) blits() []surfaceCall {
	var out []surfaceCall
	for _, c := range r.calls {
		if c.Op == "blit" {
			out = append(out, c)
		}
	}
	return out
}

// mockSurface はピクセルを持たず、呼び出しだけを記録する Surface
type mockSurface struct {
	id   string
	w, h int
	tint color.Color
	rec  *recorder

	released bool

	modulateErr error
	blitErr     error
}

func newMockSurface(rec *recorder, id string, w, h int) *mockSurface {
	return &mockSurface{id: id, w: w, h: h, rec: rec}
}

func (m *mockSurface) record(c surfaceCall) {
	if m.rec != nil {
		c.On = m.id
		m.rec.calls = append(m.rec.calls, c)
	}
}

func (m *mockSurface) Size() (int, int) {
	return m.w, m.h
}

func (m *mockSurface) Rect() graphics.Rect {
	return graphics.NewRect(0, 0, m.w, m.h)
}

func (m *mockSurface) Clone() (graphics.Surface, error) {
	m.record(surfaceCall{Op: "clone"})
	cp := *m
	return &cp, nil
}

func (m *mockSurface) Modulate(c color.Color) (graphics.Surface, error) {
	m.record(surfaceCall{Op: "modulate", Color: c})
	if m.modulateErr != nil {
		return nil, m.modulateErr
	}
	return &mockSurface{id: m.id + "*", w: m.w, h: m.h, tint: c, rec: m.rec}, nil
}

func (m *mockSurface) Fill(c color.Color) error {
	m.record(surfaceCall{Op: "fill", Color: c})
	return nil
}

func (m *mockSurface) Blit(src graphics.Surface, pos image.Point, mode graphics.BlendMode) (graphics.Rect, error) {
	srcID := ""
	if s, ok := src.(*mockSurface); ok {
		srcID = s.id
	}
	m.record(surfaceCall{Op: "blit", Src: srcID, Pos: pos, Mode: mode})
	if m.blitErr != nil {
		return graphics.Rect{}, m.blitErr
	}
	w, h := src.Size()
	return graphics.NewRect(pos.X, pos.Y, w, h).Clip(m.Rect()), nil
}

func (m *mockSurface) Release() {
	m.record(surfaceCall{Op: "release"})
	m.released = true
}

func (r *recorder) released() []string {
	var out []string
	for _, c := range r.calls {
		if c.Op == "release" {
			out = append(out, c.On)
		}
	}
	return out
}
