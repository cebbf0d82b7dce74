package graphics

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// blendMultiply は dst.rgb = src.rgb * dst.rgb（アルファは保持）
var blendMultiply = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
	BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
	BlendFactorDestinationRGB:   ebiten.BlendFactorZero,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// blendMultiplyOver は dst.rgb = src.rgb * dst.rgb + dst.rgb * (1 - src.a)
var blendMultiplyOver = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorDestinationColor,
	BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOneMinusSourceAlpha,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// blendAdd は dst.rgb = src.rgb + dst.rgb（アルファは保持）
var blendAdd = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// EbitenSurface は *ebiten.Image を Surface として扱うラッパー
// ウインドウ表示時の画面と、画面に転送するスプライト画像に使う
type EbitenSurface struct {
	img *ebiten.Image
}

var _ Releaser = (*EbitenSurface)(nil)

// NewEbitenSurface は w×h の空のサーフェスを作成する
func NewEbitenSurface(w, h int) (*EbitenSurface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return &EbitenSurface{img: ebiten.NewImage(w, h)}, nil
}

// WrapEbitenImage は既存の *ebiten.Image（例えば Draw に渡される画面）をラップする
func WrapEbitenImage(img *ebiten.Image) *EbitenSurface {
	return &EbitenSurface{img: img}
}

// NewEbitenSurfaceFromImage は任意の画像からGPU側のサーフェスを作成する
func NewEbitenSurfaceFromImage(src image.Image) *EbitenSurface {
	return &EbitenSurface{img: ebiten.NewImageFromImage(src)}
}

// Image は内部の *ebiten.Image を返す
func (s *EbitenSurface) Image() *ebiten.Image {
	return s.img
}

func (s *EbitenSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *EbitenSurface) Rect() Rect {
	w, h := s.Size()
	return NewRect(0, 0, w, h)
}

func (s *EbitenSurface) Clone() (Surface, error) {
	return s.drawCopy(nil)
}

func (s *EbitenSurface) Modulate(c color.Color) (Surface, error) {
	return s.drawCopy(c)
}

// drawCopy は同サイズの新しい画像にコピーし、c が指定されていれば色を乗算する
func (s *EbitenSurface) drawCopy(c color.Color) (Surface, error) {
	w, h := s.Size()
	out, err := NewEbitenSurface(w, h)
	if err != nil {
		return nil, err
	}
	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendCopy
	if c != nil {
		op.ColorScale.ScaleWithColor(c)
	}
	out.img.DrawImage(s.img, op)
	return out, nil
}

// Release はGPU側の画像を解放する。以後このサーフェスは使えない
func (s *EbitenSurface) Release() {
	s.img.Deallocate()
}

func (s *EbitenSurface) Fill(c color.Color) error {
	s.img.Fill(c)
	return nil
}

func (s *EbitenSurface) Blit(src Surface, pos image.Point, mode BlendMode) (Rect, error) {
	source, ok := src.(*EbitenSurface)
	if !ok {
		return Rect{}, fmt.Errorf("%w: cannot blit %T onto %T", ErrSurfaceMismatch, src, s)
	}
	blend, err := ebitenBlend(mode)
	if err != nil {
		return Rect{}, err
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(pos.X), float64(pos.Y))
	op.Blend = blend
	s.img.DrawImage(source.img, op)
	return blitRect(s, source, pos), nil
}

func ebitenBlend(mode BlendMode) (ebiten.Blend, error) {
	switch mode {
	case BlendNone:
		return ebiten.BlendCopy, nil
	case BlendBlend:
		return ebiten.BlendSourceOver, nil
	case BlendAdd:
		return blendAdd, nil
	case BlendMod:
		return blendMultiply, nil
	case BlendMul:
		return blendMultiplyOver, nil
	default:
		return ebiten.Blend{}, fmt.Errorf("%w: %d", ErrUnsupportedBlendMode, mode)
	}
}
