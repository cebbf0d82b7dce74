package scene

import (
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"math"
	"time"

	"github.com/zurustar/spritekit/pkg/graphics"
	"github.com/zurustar/spritekit/pkg/logger"
	"github.com/zurustar/spritekit/pkg/sprite"
)

// SurfaceFactory は読み込んだ画像を描画先と同じ実装のサーフェスに変換する
// nil の場合は RGBASurface のまま使う。
type SurfaceFactory func(img *graphics.RGBASurface) (graphics.Surface, error)

// Builder はシーンからスプライトグループを組み立てる
// 同じ画像を使うスプライト（copies の複製を含む）は1つのサーフェスを共有するので、
// スプライトの画像は読み取り専用として扱うこと。
type Builder struct {
	fsys    fs.FS
	factory SurfaceFactory
	log     *slog.Logger

	// 同じファイル・図形は一度だけ読み込む
	images map[string]graphics.Surface
	frames map[string]*frameSet
}

// frameSet は変換済みのフレーム列と、各フレームの表示時間
type frameSet struct {
	surfaces []graphics.Surface
	delays   []time.Duration
}

// NewBuilder は fsys から画像を読み込む Builder を作成する
func NewBuilder(fsys fs.FS, factory SurfaceFactory) *Builder {
	return &Builder{
		fsys:    fsys,
		factory: factory,
		log:     logger.GetLogger(),
		images:  make(map[string]graphics.Surface),
		frames:  make(map[string]*frameSet),
	}
}

// Build はシーンのスプライトを定義順に追加したグループを返す
func (s *Scene) Build(fsys fs.FS, factory SurfaceFactory) (*sprite.Group, error) {
	return NewBuilder(fsys, factory).Build(s)
}

// Build はシーンのスプライトを定義順に追加したグループを返す
// copies が指定されたスプライトは、複製ごとに phase_step ずつ位置と色の位相をずらす。
func (b *Builder) Build(s *Scene) (*sprite.Group, error) {
	group := sprite.NewGroup()
	for i, sc := range s.Sprites {
		img, err := b.image(sc)
		if err != nil {
			return nil, fmt.Errorf("sprite %d (%s): %w", i, sc.Name, err)
		}

		center := s.Center()
		if sc.Center != nil {
			center = image.Point(*sc.Center)
		}

		for c := 0; c < max(sc.Copies, 1); c++ {
			phase := float64(c) * sc.PhaseStep
			rectAnim := b.rectAnimation(s, sc.RectAnimation, phase)
			imageAnim, err := b.imageAnimation(s, sc.ImageAnimation, phase)
			if err != nil {
				return nil, fmt.Errorf("sprite %d (%s): %w", i, sc.Name, err)
			}
			group.Add(sprite.NewAnimatedSprite(img, center, rectAnim, imageAnim))
		}
	}

	b.log.Info("Scene built", "title", s.Title, "sprites", group.Len(), "images", len(b.images))
	return group, nil
}

func (b *Builder) image(sc SpriteConfig) (graphics.Surface, error) {
	key := sc.Image
	if sc.Shape != nil {
		sh := sc.Shape
		key = fmt.Sprintf("shape:%s:%d:%dx%d:%s", sh.Type, sh.Radius, sh.Width, sh.Height, sh.Color)
	}
	if img, ok := b.images[key]; ok {
		return img, nil
	}

	var (
		rgba *graphics.RGBASurface
		err  error
	)
	if sc.Shape != nil {
		rgba, err = newShape(sc.Shape)
	} else {
		rgba, err = graphics.LoadSurface(b.fsys, sc.Image)
	}
	if err != nil {
		return nil, err
	}

	img, err := b.convert(rgba)
	if err != nil {
		return nil, err
	}
	b.images[key] = img
	b.log.Debug("Image loaded", "key", key, "width", rgba.Rect().W, "height", rgba.Rect().H)
	return img, nil
}

func (b *Builder) convert(rgba *graphics.RGBASurface) (graphics.Surface, error) {
	if b.factory == nil {
		return rgba, nil
	}
	return b.factory(rgba)
}

func newShape(sh *ShapeConfig) (*graphics.RGBASurface, error) {
	c, err := graphics.ColorFromHex(sh.Color)
	if err != nil {
		return nil, err
	}
	switch sh.Type {
	case "circle":
		return graphics.NewCircleSurface(sh.Radius, c)
	case "box":
		return graphics.NewBoxSurface(sh.Width, sh.Height, c)
	default:
		return nil, fmt.Errorf("%q: %w", sh.Type, ErrUnknownShape)
	}
}

func (b *Builder) rectAnimation(s *Scene, cfg *RectAnimationConfig, phase float64) sprite.RectAnimation {
	if cfg == nil {
		return nil
	}
	center := s.Center()
	if cfg.Center != nil {
		center = image.Point(*cfg.Center)
	}
	curve := sprite.Hypotrochoid{A: cfg.A, B: cfg.B, H: cfg.H}
	return sprite.NewHypotrochoidAnimation(cfg.Start+phase, cfg.Step, center, curve)
}

func (b *Builder) imageAnimation(s *Scene, cfg *ImageAnimationConfig, phase float64) (sprite.ImageAnimation, error) {
	if cfg == nil {
		return nil, nil
	}
	switch cfg.Type {
	case "color":
		hue := sprite.HueCycle{Saturation: 1, Lightness: 0.5}
		if cfg.Saturation != nil {
			hue.Saturation = *cfg.Saturation
		}
		if cfg.Lightness != nil {
			hue.Lightness = *cfg.Lightness
		}
		return sprite.NewColorAnimation(cfg.Frame+int(phase), hue), nil
	case "frames":
		set, err := b.loadFrames(cfg.Path)
		if err != nil {
			return nil, err
		}
		var anim *sprite.FrameAnimation
		if cfg.Hold > 0 {
			anim, err = sprite.NewFrameAnimation(set.surfaces, cfg.Hold)
		} else {
			anim, err = sprite.NewTimedFrameAnimation(set.surfaces, holdsFor(set.delays, s.FrameRate))
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Path, err)
		}
		return anim, nil
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Type, ErrUnknownAnimation)
	}
}

func (b *Builder) loadFrames(path string) (*frameSet, error) {
	if set, ok := b.frames[path]; ok {
		return set, nil
	}
	loaded, err := graphics.LoadFrames(b.fsys, path)
	if err != nil {
		return nil, err
	}
	set := &frameSet{delays: loaded.Delays}
	for _, f := range loaded.Surfaces {
		img, err := b.convert(f)
		if err != nil {
			return nil, err
		}
		set.surfaces = append(set.surfaces, img)
	}
	b.frames[path] = set
	b.log.Debug("Frames loaded", "path", path, "frames", len(set.surfaces))
	return set, nil
}

// holdsFor はフレームの表示時間を frameRate でのフレーム数に換算する（最低1）
func holdsFor(delays []time.Duration, frameRate int) []int {
	holds := make([]int, len(delays))
	for i, d := range delays {
		holds[i] = max(int(math.Round(d.Seconds()*float64(frameRate))), 1)
	}
	return holds
}
