package sprite

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/zurustar/spritekit/pkg/graphics"
)

// RectAnimation はフレームごとにスプライトの配置矩形を計算する
// 内部カーソルを持つため、同じインスタンスを並行に呼び出してはならない
type RectAnimation interface {
	// UpdateRectangle は現在の矩形から新しい矩形を返し、カーソルを1フレーム進める
	UpdateRectangle(current graphics.Rect) graphics.Rect
}

// ImageAnimation はフレームごとに描画する画像を生成する
type ImageAnimation interface {
	// TransformImage は src から新しい画像を生成して返す（src は変更しない）
	TransformImage(src graphics.Surface) (graphics.Surface, error)
}

// ============================================================================
// HypotrochoidAnimation
// ============================================================================

// Hypotrochoid は内トロコイド曲線のパラメータ
// A: 外側の円の半径, B: 転がる円の半径, H: 転がる円の中心からの距離
type Hypotrochoid struct {
	A, B, H float64
}

// At は center を原点とした曲線上の点を返す
// degrees は角度（度）。結果が有限値でない場合（B == 0 など）は ok = false
func (c Hypotrochoid) At(center image.Point, degrees float64) (p image.Point, ok bool) {
	t := degrees * math.Pi / 180
	k := (c.A - c.B) / c.B
	x := float64(center.X) + (c.A-c.B)*math.Cos(t) + c.H*math.Cos(k*t)
	y := float64(center.Y) + (c.A-c.B)*math.Sin(t) - c.H*math.Sin(k*t)
	x, y = math.Round(x), math.Round(y)
	if !finiteInt(x) || !finiteInt(y) {
		return image.Point{}, false
	}
	return image.Pt(int(x), int(y)), true
}

// finiteInt は値が有限で int に収まるかどうかを返す
func finiteInt(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= math.MinInt32 && v <= math.MaxInt32
}

// HypotrochoidAnimation は中心の周りを内トロコイド曲線に沿って動かす RectAnimation
//
// カーソル（position, 度）は呼び出しごとに step ずつ進む。
// 計算には呼び出し時点の position を使い、その後で step を加算する。
// position は剰余を取らずに増え続ける（三角関数は周期的なので実用上問題ない）。
type HypotrochoidAnimation struct {
	position float64
	step     float64
	center   image.Point
	curve    Hypotrochoid
}

// NewHypotrochoidAnimation は開始角度 start と1フレームあたりの増分 step（いずれも度）で
// アニメーションを作成する
func NewHypotrochoidAnimation(start, step float64, center image.Point, curve Hypotrochoid) *HypotrochoidAnimation {
	return &HypotrochoidAnimation{
		position: start,
		step:     step,
		center:   center,
		curve:    curve,
	}
}

// Position は次の呼び出しで使われる角度（度）を返す
func (h *HypotrochoidAnimation) Position() float64 {
	return h.position
}

// UpdateRectangle は曲線上の現在位置を中心とする、current と同じサイズの矩形を返す
// 座標が計算できない場合は current をそのまま返す（カーソルは進める）
func (h *HypotrochoidAnimation) UpdateRectangle(current graphics.Rect) graphics.Rect {
	p, ok := h.curve.At(h.center, h.position)
	h.position += h.step
	if !ok {
		return current
	}
	return graphics.NewCenterRect(p, current.Size())
}

// ============================================================================
// ColorAnimation
// ============================================================================

// ColorCycleFrames は ColorAnimation のフレームカウンタの周期
const ColorCycleFrames = 360

// ToColor はフレーム番号から色を決める戦略
type ToColor interface {
	Color(frame int) color.Color
}

// ToColorFunc は関数を ToColor として使うためのアダプタ
type ToColorFunc func(frame int) color.Color

func (f ToColorFunc) Color(frame int) color.Color {
	return f(frame)
}

// HueCycle はフレーム番号を色相（度）とみなしてHSLから色を作る
type HueCycle struct {
	Saturation float64
	Lightness  float64
}

func (h HueCycle) Color(frame int) color.Color {
	return graphics.ColorFromHSL(float64(frame), h.Saturation, h.Lightness)
}

// ColorAnimation はフレームごとに異なる色を画像に乗算する ImageAnimation
// 1枚の元画像でパレット差し替えのような色変化を表現する
type ColorAnimation struct {
	frame   int
	toColor ToColor
}

// NewColorAnimation は開始フレーム frame（0〜359に正規化）でアニメーションを作成する
func NewColorAnimation(frame int, toColor ToColor) *ColorAnimation {
	frame %= ColorCycleFrames
	if frame < 0 {
		frame += ColorCycleFrames
	}
	return &ColorAnimation{frame: frame, toColor: toColor}
}

// Frame は次の呼び出しで使われるフレーム番号を返す
func (c *ColorAnimation) Frame() int {
	return c.frame
}

// TransformImage は現在フレームの色を src に乗算したコピーを返し、フレームを1進める
func (c *ColorAnimation) TransformImage(src graphics.Surface) (graphics.Surface, error) {
	col := c.toColor.Color(c.frame)
	c.frame = (c.frame + 1) % ColorCycleFrames
	out, err := src.Modulate(col)
	if err != nil {
		return nil, fmt.Errorf("color animation: %w", err)
	}
	return out, nil
}

// ============================================================================
// FrameAnimation
// ============================================================================

// FrameAnimation は読み込み済みのフレーム列（アニメーションGIFなど）を順に表示する
// src は使わず、各フレームのコピーを返す
type FrameAnimation struct {
	frames []graphics.Surface
	holds  []int // フレームごとの表示回数
	index  int
	count  int
}

// NewFrameAnimation は hold 回の呼び出しごとに次のフレームへ進むアニメーションを作成する
// hold が1未満の場合は1として扱う
func NewFrameAnimation(frames []graphics.Surface, hold int) (*FrameAnimation, error) {
	holds := make([]int, len(frames))
	for i := range holds {
		holds[i] = hold
	}
	return NewTimedFrameAnimation(frames, holds)
}

// NewTimedFrameAnimation はフレームごとに表示回数を指定してアニメーションを作成する
// holds[i] が1未満の場合は1として扱う
func NewTimedFrameAnimation(frames []graphics.Surface, holds []int) (*FrameAnimation, error) {
	if len(frames) == 0 {
		return nil, graphics.ErrNoFrames
	}
	if len(holds) != len(frames) {
		return nil, fmt.Errorf("%w: %d holds for %d frames", ErrHoldCount, len(holds), len(frames))
	}
	clamped := make([]int, len(holds))
	for i, h := range holds {
		clamped[i] = max(h, 1)
	}
	return &FrameAnimation{frames: frames, holds: clamped}, nil
}

// Index は次の呼び出しで返すフレームの番号を返す
func (f *FrameAnimation) Index() int {
	return f.index
}

func (f *FrameAnimation) TransformImage(graphics.Surface) (graphics.Surface, error) {
	frame := f.frames[f.index]
	f.count++
	if f.count >= f.holds[f.index] {
		f.count = 0
		f.index = (f.index + 1) % len(f.frames)
	}
	out, err := frame.Clone()
	if err != nil {
		return nil, fmt.Errorf("frame animation: %w", err)
	}
	return out, nil
}
