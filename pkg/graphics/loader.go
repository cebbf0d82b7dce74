package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io/fs"
	"time"

	// デコーダーの登録
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
	_ "golang.org/x/image/webp"
)

// LoadImage は fsys から画像ファイルを読み込んでデコードする
// 対応形式: PNG, JPEG, GIF（先頭フレーム）, BMP, WebP
func LoadImage(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}
	return img, nil
}

// LoadSurface は画像ファイルを読み込んでRGBAサーフェスを返す
func LoadSurface(fsys fs.FS, name string) (*RGBASurface, error) {
	img, err := LoadImage(fsys, name)
	if err != nil {
		return nil, err
	}
	return NewRGBASurfaceFromImage(img), nil
}

// Frames はアニメーションGIFから展開したフレーム列
type Frames struct {
	Surfaces []*RGBASurface
	Delays   []time.Duration
}

// LoadFrames はアニメーションGIFを読み込み、各フレームを画像全体のサイズに展開する
// 差分フレームは前フレームに重ね、破棄方法（Disposal）に従って背景を戻す
func LoadFrames(fsys fs.FS, name string) (*Frames, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", name, err)
	}
	defer f.Close()

	g, err := gif.DecodeAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode gif %s: %w", name, err)
	}
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNoFrames)
	}

	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		bounds = g.Image[0].Bounds()
	}
	canvas := image.NewRGBA(bounds)
	result := &Frames{}

	for i, frame := range g.Image {
		var previous *image.RGBA
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			previous = image.NewRGBA(bounds)
			copy(previous.Pix, canvas.Pix)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
		result.Surfaces = append(result.Surfaces, NewRGBASurfaceFromImage(canvas))

		delay := time.Duration(0)
		if i < len(g.Delay) {
			delay = time.Duration(g.Delay[i]) * 10 * time.Millisecond
		}
		result.Delays = append(result.Delays, delay)

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return result, nil
}

// circleKappa は4本の3次ベジェで円を近似するときの制御点係数
const circleKappa = 0.5522847498

// NewCircleSurface は半径 radius の塗りつぶし円を描いたサーフェスを作成する
func NewCircleSurface(radius int, c color.Color) (*RGBASurface, error) {
	d := radius * 2
	s, err := NewRGBASurface(d, d)
	if err != nil {
		return nil, err
	}

	r := float32(radius)
	k := r * circleKappa
	z := vector.NewRasterizer(d, d)
	z.MoveTo(2*r, r)
	z.CubeTo(2*r, r+k, r+k, 2*r, r, 2*r)
	z.CubeTo(r-k, 2*r, 0, r+k, 0, r)
	z.CubeTo(0, r-k, r-k, 0, r, 0)
	z.CubeTo(r+k, 0, 2*r, r-k, 2*r, r)
	z.ClosePath()
	z.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{})
	return s, nil
}

// NewBoxSurface は w×h を単色で塗りつぶしたサーフェスを作成する
func NewBoxSurface(w, h int, c color.Color) (*RGBASurface, error) {
	s, err := NewRGBASurface(w, h)
	if err != nil {
		return nil, err
	}
	if err := s.Fill(c); err != nil {
		return nil, err
	}
	return s, nil
}
