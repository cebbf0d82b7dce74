// Package scene loads YAML scene descriptions and builds sprite groups from them.
package scene

import (
	_ "embed"
	"fmt"
	"image"
	"image/color"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/zurustar/spritekit/pkg/graphics"
)

//go:embed default.yaml
var defaultScene []byte

// 既定値
const (
	DefaultWidth      = 640
	DefaultHeight     = 480
	DefaultFrameRate  = 60
	DefaultBackground = "#000000"
)

// Scene はシーンファイル全体の設定
type Scene struct {
	Title      string         `yaml:"title"`
	Width      int            `yaml:"width"`
	Height     int            `yaml:"height"`
	Background string         `yaml:"background"` // "#rrggbb" または "0xRRGGBB"
	FrameRate  int            `yaml:"frame_rate"`
	Sprites    []SpriteConfig `yaml:"sprites"`
}

// SpriteConfig はスプライト1つ（copies 指定時はその複製すべて）の設定
type SpriteConfig struct {
	Name           string                `yaml:"name"`
	Image          string                `yaml:"image"` // シーンファイルからの相対パス
	Shape          *ShapeConfig          `yaml:"shape"`
	Center         *Point                `yaml:"center"` // 省略時は画面中央
	RectAnimation  *RectAnimationConfig  `yaml:"rect_animation"`
	ImageAnimation *ImageAnimationConfig `yaml:"image_animation"`
	Copies         int                   `yaml:"copies"`     // 複製数（0 と 1 は1つ）
	PhaseStep      float64               `yaml:"phase_step"` // 複製ごとの位相のずれ（度）
}

// ShapeConfig は画像ファイルの代わりに生成する図形
type ShapeConfig struct {
	Type   string `yaml:"type"` // "circle" または "box"
	Radius int    `yaml:"radius"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Color  string `yaml:"color"`
}

// RectAnimationConfig は位置アニメーションの設定
type RectAnimationConfig struct {
	Type   string  `yaml:"type"` // "hypotrochoid"
	Start  float64 `yaml:"start"`
	Step   float64 `yaml:"step"`
	Center *Point  `yaml:"center"` // 省略時は画面中央
	A      float64 `yaml:"a"`
	B      float64 `yaml:"b"`
	H      float64 `yaml:"h"`
}

// ImageAnimationConfig は画像アニメーションの設定
type ImageAnimationConfig struct {
	Type       string   `yaml:"type"` // "color" または "frames"
	Frame      int      `yaml:"frame"`
	Saturation *float64 `yaml:"saturation"` // 省略時 1.0
	Lightness  *float64 `yaml:"lightness"`  // 省略時 0.5
	Path       string   `yaml:"path"`       // frames: GIF ファイル
	Hold       int      `yaml:"hold"`       // frames: 1コマを表示する呼び出し回数（0 は GIF の遅延時間から決める）
}

// Point は [x, y] または {x: .., y: ..} で書ける座標
type Point image.Point

// UnmarshalYAML は2要素のシーケンスとマッピングの両方を受け付ける
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xy []int
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: %w", value.Line, ErrInvalidPoint)
		}
		*p = Point{X: xy[0], Y: xy[1]}
		return nil
	case yaml.MappingNode:
		var m struct {
			X int `yaml:"x"`
			Y int `yaml:"y"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		*p = Point{X: m.X, Y: m.Y}
		return nil
	default:
		return fmt.Errorf("line %d: %w", value.Line, ErrInvalidPoint)
	}
}

// MarshalYAML は [x, y] 形式で書き出す
func (p Point) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []int{p.X, p.Y} {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(v)})
	}
	return node, nil
}

// Parse は YAML を解析して既定値を補ったシーンを返す
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	s.setDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load は fsys からシーンファイルを読み込む
func Load(fsys fs.FS, name string) (*Scene, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", name, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// Default は組み込みのデモシーンを返す
func Default() *Scene {
	s, err := Parse(defaultScene)
	if err != nil {
		panic(fmt.Sprintf("embedded default scene is invalid: %v", err))
	}
	return s
}

func (s *Scene) setDefaults() {
	if s.Width == 0 {
		s.Width = DefaultWidth
	}
	if s.Height == 0 {
		s.Height = DefaultHeight
	}
	if s.FrameRate == 0 {
		s.FrameRate = DefaultFrameRate
	}
	if s.Background == "" {
		s.Background = DefaultBackground
	}
}

// Validate は画像を読み込まずに確認できる範囲でシーンを検証する
func (s *Scene) Validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("invalid screen size %dx%d: %w", s.Width, s.Height, graphics.ErrInvalidSize)
	}
	if _, err := graphics.ColorFromHex(s.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if len(s.Sprites) == 0 {
		return ErrNoSprites
	}
	for i, sc := range s.Sprites {
		if err := sc.validate(); err != nil {
			return fmt.Errorf("sprite %d (%s): %w", i, sc.Name, err)
		}
	}
	return nil
}

func (sc *SpriteConfig) validate() error {
	if sc.Image == "" && sc.Shape == nil {
		return ErrNoImage
	}
	if sc.Shape != nil {
		switch sc.Shape.Type {
		case "circle":
			if sc.Shape.Radius <= 0 {
				return fmt.Errorf("circle radius %d: %w", sc.Shape.Radius, graphics.ErrInvalidSize)
			}
		case "box":
			if sc.Shape.Width <= 0 || sc.Shape.Height <= 0 {
				return fmt.Errorf("box %dx%d: %w", sc.Shape.Width, sc.Shape.Height, graphics.ErrInvalidSize)
			}
		default:
			return fmt.Errorf("%q: %w", sc.Shape.Type, ErrUnknownShape)
		}
		if _, err := graphics.ColorFromHex(sc.Shape.Color); err != nil {
			return fmt.Errorf("shape color: %w", err)
		}
	}
	if ra := sc.RectAnimation; ra != nil && ra.Type != "hypotrochoid" {
		return fmt.Errorf("rect_animation %q: %w", ra.Type, ErrUnknownAnimation)
	}
	if ia := sc.ImageAnimation; ia != nil {
		switch ia.Type {
		case "color":
		case "frames":
			if ia.Path == "" {
				return fmt.Errorf("image_animation frames: path is required")
			}
		default:
			return fmt.Errorf("image_animation %q: %w", ia.Type, ErrUnknownAnimation)
		}
	}
	return nil
}

// Size は画面サイズを返す
func (s *Scene) Size() image.Point {
	return image.Pt(s.Width, s.Height)
}

// Center は画面中央の座標を返す
func (s *Scene) Center() image.Point {
	return image.Pt(s.Width/2, s.Height/2)
}

// BackgroundColor は背景色を返す
func (s *Scene) BackgroundColor() color.RGBA {
	c, err := graphics.ColorFromHex(s.Background)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return c
}

// SpriteCount は複製を含めたスプライトの総数を返す
func (s *Scene) SpriteCount() int {
	n := 0
	for _, sc := range s.Sprites {
		n += max(sc.Copies, 1)
	}
	return n
}
