package graphics

import (
	"image"
	"image/color"
)

// BlendMode は転送時の合成方法
type BlendMode int

const (
	BlendNone  BlendMode = iota // 上書き（dst = src）
	BlendBlend                  // アルファ合成（source-over）
	BlendAdd                    // 加算（dst = src*srcA + dst）
	BlendMod                    // 乗算（dst = src * dst、アルファは保持）
	BlendMul                    // 乗算＋アルファ合成
)

func (m BlendMode) String() string {
	switch m {
	case BlendNone:
		return "none"
	case BlendBlend:
		return "blend"
	case BlendAdd:
		return "add"
	case BlendMod:
		return "mod"
	case BlendMul:
		return "mul"
	default:
		return "invalid"
	}
}

// Surface は2Dピクセルバッファの抽象
// スプライト側はピクセルに直接触れず、このインターフェース経由でのみ操作する
type Surface interface {
	// Size は幅と高さを返す
	Size() (int, int)
	// Rect は (0, 0) を左上とするサーフェス全体の矩形を返す
	Rect() Rect
	// Clone は同じ内容を持つ新しいサーフェスを返す
	Clone() (Surface, error)
	// Modulate は各ピクセルに色を乗算した新しいサーフェスを返す（元は変更しない）
	Modulate(c color.Color) (Surface, error)
	// Fill はサーフェス全体を塗りつぶす
	Fill(c color.Color) error
	// Blit は src を pos に合成し、実際に書き込まれた範囲（クリップ済み）を返す
	Blit(src Surface, pos image.Point, mode BlendMode) (Rect, error)
}

// Releaser は資源を GC を待たずに解放できるサーフェスが実装する
// 描画のたびに作られる一時的な画像（色変換の結果など）は、使い終わったら Release する。
type Releaser interface {
	Release()
}

// blitRect は転送先の矩形をサーフェス範囲でクリップする
func blitRect(dst, src Surface, pos image.Point) Rect {
	w, h := src.Size()
	return NewRect(pos.X, pos.Y, w, h).Clip(dst.Rect())
}
