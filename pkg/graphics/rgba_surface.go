package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"golang.org/x/image/draw"
)

// RGBASurface はメモリ上の *image.RGBA によるソフトウェア描画サーフェス
// ヘッドレス実行とテストで使用する
type RGBASurface struct {
	img *image.RGBA
}

// NewRGBASurface は透明で初期化された w×h のサーフェスを作成する
func NewRGBASurface(w, h int) (*RGBASurface, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, w, h)
	}
	return &RGBASurface{img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

// NewRGBASurfaceFromImage は任意の画像を (0, 0) 起点のRGBAサーフェスにコピーする
func NewRGBASurfaceFromImage(src image.Image) *RGBASurface {
	b := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Copy(img, image.Point{}, src, b, draw.Src, nil)
	return &RGBASurface{img: img}
}

// Image は内部の画像を返す（コピーではない）
func (s *RGBASurface) Image() *image.RGBA {
	return s.img
}

func (s *RGBASurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *RGBASurface) Rect() Rect {
	w, h := s.Size()
	return NewRect(0, 0, w, h)
}

func (s *RGBASurface) Clone() (Surface, error) {
	img := image.NewRGBA(s.img.Bounds())
	copy(img.Pix, s.img.Pix)
	return &RGBASurface{img: img}, nil
}

// Modulate は各チャンネルに c を乗算したコピーを返す
// アルファも c.A で乗算する
func (s *RGBASurface) Modulate(c color.Color) (Surface, error) {
	mod := toNRGBA(c)
	out := image.NewRGBA(s.img.Bounds())
	// Pixはプリマルチプライド値なので、RGBにはアルファ係数も掛ける
	ra := uint32(mod.R) * uint32(mod.A)
	ga := uint32(mod.G) * uint32(mod.A)
	ba := uint32(mod.B) * uint32(mod.A)
	for i := 0; i+3 < len(s.img.Pix); i += 4 {
		out.Pix[i+0] = uint8(uint32(s.img.Pix[i+0]) * ra / (255 * 255))
		out.Pix[i+1] = uint8(uint32(s.img.Pix[i+1]) * ga / (255 * 255))
		out.Pix[i+2] = uint8(uint32(s.img.Pix[i+2]) * ba / (255 * 255))
		out.Pix[i+3] = uint8(uint32(s.img.Pix[i+3]) * uint32(mod.A) / 255)
	}
	return &RGBASurface{img: out}, nil
}

func (s *RGBASurface) Fill(c color.Color) error {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return nil
}

func (s *RGBASurface) Blit(src Surface, pos image.Point, mode BlendMode) (Rect, error) {
	source, ok := src.(*RGBASurface)
	if !ok {
		return Rect{}, fmt.Errorf("%w: cannot blit %T onto %T", ErrSurfaceMismatch, src, s)
	}
	clipped := blitRect(s, source, pos)
	if clipped.Empty() {
		return clipped, nil
	}
	dr := clipped.ImageRect()
	sr := dr.Sub(pos)

	switch mode {
	case BlendNone:
		draw.Copy(s.img, dr.Min, source.img, sr, draw.Src, nil)
	case BlendBlend:
		draw.Copy(s.img, dr.Min, source.img, sr, draw.Over, nil)
	case BlendAdd, BlendMod, BlendMul:
		s.composite(source.img, dr, sr.Min, mode)
	default:
		return Rect{}, fmt.Errorf("%w: %d", ErrUnsupportedBlendMode, mode)
	}
	return clipped, nil
}

// composite はdrawパッケージにない加算・乗算系の合成を行う
// 各モードの式はストレートアルファ（0〜1）で:
//
//	add: dst.rgb = src.rgb*src.a + dst.rgb
//	mod: dst.rgb = src.rgb*dst.rgb
//	mul: dst.rgb = src.rgb*dst.rgb + dst.rgb*(1-src.a)
//
// いずれも dst.a は変更しない
func (s *RGBASurface) composite(src *image.RGBA, dr image.Rectangle, sp image.Point, mode BlendMode) {
	for y := 0; y < dr.Dy(); y++ {
		for x := 0; x < dr.Dx(); x++ {
			sc := toNRGBA(src.RGBAAt(sp.X+x, sp.Y+y))
			dc := toNRGBA(s.img.RGBAAt(dr.Min.X+x, dr.Min.Y+y))
			out := color.NRGBA{A: dc.A}
			out.R = blendChannel(sc.R, dc.R, sc.A, mode)
			out.G = blendChannel(sc.G, dc.G, sc.A, mode)
			out.B = blendChannel(sc.B, dc.B, sc.A, mode)
			s.img.Set(dr.Min.X+x, dr.Min.Y+y, out)
		}
	}
}

func blendChannel(src, dst, srcA uint8, mode BlendMode) uint8 {
	s, d, a := uint32(src), uint32(dst), uint32(srcA)
	var v uint32
	switch mode {
	case BlendAdd:
		v = s*a/255 + d
	case BlendMod:
		v = s * d / 255
	case BlendMul:
		v = s*d/255 + d*(255-a)/255
	default:
		v = d
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// SavePNG はサーフェスをPNGとして書き出す
func (s *RGBASurface) SavePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
