// Package graphics provides the drawing surfaces and value types the sprite
// pipeline renders through.
package graphics

import (
	"fmt"
	"image"
)

// Rect は位置とサイズを持つ矩形（値型）
// W, H は正規化前であれば負の値も取り得る
type Rect struct {
	X, Y int
	W, H int
}

// NewRect は左上座標とサイズから矩形を作成する
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// NewCenterRect は中心座標とサイズから矩形を作成する
func NewCenterRect(center image.Point, size image.Point) Rect {
	r := Rect{W: size.X, H: size.Y}
	r.SetCenter(center)
	return r
}

// NewRectFromPoints は2点を対角とする矩形を作成する（点の順序は問わない）
func NewRectFromPoints(p1, p2 image.Point) Rect {
	return Rect{X: p1.X, Y: p1.Y, W: p2.X - p1.X, H: p2.Y - p1.Y}.Normalize()
}

func (r Rect) String() string {
	return fmt.Sprintf("Rect(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Bottom() int { return r.Y + r.H }

func (r *Rect) SetLeft(left int)     { r.X = left }
func (r *Rect) SetRight(right int)   { r.X = right - r.W }
func (r *Rect) SetTop(top int)       { r.Y = top }
func (r *Rect) SetBottom(bottom int) { r.Y = bottom - r.H }

// CenterX は中心のX座標を返す（幅の半分は整数除算）
func (r Rect) CenterX() int { return r.X + r.W/2 }

// CenterY は中心のY座標を返す
func (r Rect) CenterY() int { return r.Y + r.H/2 }

func (r *Rect) SetCenterX(x int) { r.X = x - r.W/2 }
func (r *Rect) SetCenterY(y int) { r.Y = y - r.H/2 }

// Center は中心座標を返す
func (r Rect) Center() image.Point {
	return image.Pt(r.CenterX(), r.CenterY())
}

// SetCenter はサイズを保ったまま中心座標を移動する
func (r *Rect) SetCenter(p image.Point) {
	r.SetCenterX(p.X)
	r.SetCenterY(p.Y)
}

// Size はサイズを返す
func (r Rect) Size() image.Point {
	return image.Pt(r.W, r.H)
}

// SetSize は左上を固定したままサイズを変更する
func (r *Rect) SetSize(size image.Point) {
	r.W = size.X
	r.H = size.Y
}

func (r Rect) TopLeft() image.Point     { return image.Pt(r.X, r.Y) }
func (r Rect) TopRight() image.Point    { return image.Pt(r.Right(), r.Y) }
func (r Rect) BottomLeft() image.Point  { return image.Pt(r.X, r.Bottom()) }
func (r Rect) BottomRight() image.Point { return image.Pt(r.Right(), r.Bottom()) }
func (r Rect) MidTop() image.Point      { return image.Pt(r.CenterX(), r.Y) }
func (r Rect) MidLeft() image.Point     { return image.Pt(r.X, r.CenterY()) }
func (r Rect) MidBottom() image.Point   { return image.Pt(r.CenterX(), r.Bottom()) }
func (r Rect) MidRight() image.Point    { return image.Pt(r.Right(), r.CenterY()) }

// SetTopLeft はサイズを保ったまま左上座標を移動する
func (r *Rect) SetTopLeft(p image.Point) {
	r.X = p.X
	r.Y = p.Y
}

// SetBottomRight はサイズを保ったまま右下座標を移動する
func (r *Rect) SetBottomRight(p image.Point) {
	r.X = p.X - r.W
	r.Y = p.Y - r.H
}

// Move は平行移動した矩形を返す
func (r Rect) Move(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Normalize は負の幅・高さを反転し、W, H >= 0 の矩形を返す
func (r Rect) Normalize() Rect {
	if r.W < 0 {
		r.X += r.W
		r.W = -r.W
	}
	if r.H < 0 {
		r.Y += r.H
		r.H = -r.H
	}
	return r
}

// Empty は面積がゼロかどうかを返す
func (r Rect) Empty() bool {
	n := r.Normalize()
	return n.W == 0 || n.H == 0
}

// Contains は点が矩形内にあるかどうかを返す（右端・下端は含まない）
func (r Rect) Contains(p image.Point) bool {
	n := r.Normalize()
	return p.X >= n.X && p.X < n.Right() && p.Y >= n.Y && p.Y < n.Bottom()
}

// Clip は bounds との共通部分を返す
// 共通部分がない場合は bounds の左上にサイズ0の矩形を返す
func (r Rect) Clip(bounds Rect) Rect {
	a := r.Normalize()
	b := bounds.Normalize()
	left := max(a.X, b.X)
	top := max(a.Y, b.Y)
	right := min(a.Right(), b.Right())
	bottom := min(a.Bottom(), b.Bottom())
	if right <= left || bottom <= top {
		return Rect{X: b.X, Y: b.Y}
	}
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// Union は両方を含む最小の矩形を返す
func (r Rect) Union(other Rect) Rect {
	a := r.Normalize()
	b := other.Normalize()
	if a.Empty() {
		return b
	}
	if b.Empty() {
		return a
	}
	left := min(a.X, b.X)
	top := min(a.Y, b.Y)
	right := max(a.Right(), b.Right())
	bottom := max(a.Bottom(), b.Bottom())
	return Rect{X: left, Y: top, W: right - left, H: bottom - top}
}

// ImageRect は image.Rectangle に変換する
func (r Rect) ImageRect() image.Rectangle {
	n := r.Normalize()
	return image.Rect(n.X, n.Y, n.Right(), n.Bottom())
}

// RectFromImage は image.Rectangle から Rect を作成する
func RectFromImage(ir image.Rectangle) Rect {
	return Rect{X: ir.Min.X, Y: ir.Min.Y, W: ir.Dx(), H: ir.Dy()}
}
