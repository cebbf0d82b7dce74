package sprite

import (
	"fmt"
	"image"
	"log/slog"
	"slices"
	"strings"

	"github.com/zurustar/spritekit/pkg/graphics"
	"github.com/zurustar/spritekit/pkg/logger"
)

// SpriteGroup はまとめて更新・描画できるスプライトの集合
type SpriteGroup interface {
	Update() error
	Draw(dst graphics.Surface) error
}

// Group はスプライトを追加順に保持する SpriteGroup の実装
//
// 描画順序はスライスの順序で決定される:
// - スライスの先頭 = 最背面（最初に描画）
// - スライスの末尾 = 最前面（最後に描画）
//
// Group はフレームループを回す単一の呼び出し元が所有する前提で、ロックは持たない。
type Group struct {
	sprites []Sprite
	log     *slog.Logger
}

var _ SpriteGroup = (*Group)(nil)

// NewGroup は sprites を順に追加したグループを作成する
func NewGroup(sprites ...Sprite) *Group {
	g := &Group{sprites: make([]Sprite, 0, len(sprites))}
	g.Add(sprites...)
	return g
}

// SetLogger はグループが使うロガーを設定する（nil で既定のロガー）
func (g *Group) SetLogger(l *slog.Logger) {
	g.log = l
}

func (g *Group) logger() *slog.Logger {
	if g.log != nil {
		return g.log
	}
	return logger.GetLogger()
}

// Add はスプライトを末尾（最前面）に追加する。nil は無視する
func (g *Group) Add(sprites ...Sprite) {
	for _, s := range sprites {
		if s == nil {
			continue
		}
		g.sprites = append(g.sprites, s)
	}
}

// Remove はスプライトをグループから取り除く
func (g *Group) Remove(s Sprite) error {
	i := g.index(s)
	if i < 0 {
		return ErrSpriteNotFound
	}
	g.sprites = slices.Delete(g.sprites, i, i+1)
	return nil
}

// BringToFront はスプライトを最前面（スライス末尾）に移動する
func (g *Group) BringToFront(s Sprite) error {
	if err := g.Remove(s); err != nil {
		return err
	}
	g.sprites = append(g.sprites, s)
	return nil
}

// SendToBack はスプライトを最背面（スライス先頭）に移動する
func (g *Group) SendToBack(s Sprite) error {
	if err := g.Remove(s); err != nil {
		return err
	}
	g.sprites = slices.Insert(g.sprites, 0, s)
	return nil
}

func (g *Group) index(s Sprite) int {
	for i, sp := range g.sprites {
		if sp == s {
			return i
		}
	}
	return -1
}

// Has はスプライトがグループに含まれているかどうかを返す
func (g *Group) Has(s Sprite) bool {
	return g.index(s) >= 0
}

// Len はスプライト数を返す
func (g *Group) Len() int {
	return len(g.sprites)
}

// Empty はスプライトが1つもないかどうかを返す
func (g *Group) Empty() bool {
	return len(g.sprites) == 0
}

// Sprites はスプライトのリストを描画順で返す（コピー）
func (g *Group) Sprites() []Sprite {
	return slices.Clone(g.sprites)
}

// Clear はすべてのスプライトを取り除く
func (g *Group) Clear() {
	clear(g.sprites)
	g.sprites = g.sprites[:0]
}

// SpriteAt は p を含む生存中のスプライトのうち最前面のものを返す（なければ nil）
func (g *Group) SpriteAt(p image.Point) Sprite {
	for i := len(g.sprites) - 1; i >= 0; i-- {
		s := g.sprites[i]
		if !s.IsKilled() && s.Rect().Contains(p) {
			return s
		}
	}
	return nil
}

// Update は1フレーム分の更新を行う
//
//  1. RectAnimation を持つスプライトの矩形を計算して SetRect する
//  2. 各スプライトの Update フックを追加順に呼ぶ（最初のエラーで中断）
//  3. Kill されたスプライトを順序を保ったまま取り除く
//
// 2でエラーが発生した場合は3を行わずに返る。
func (g *Group) Update() error {
	for _, s := range g.sprites {
		if anim := s.RectAnimation(); anim != nil {
			s.SetRect(anim.UpdateRectangle(s.Rect()))
		}
	}

	for i, s := range g.sprites {
		if err := s.Update(); err != nil {
			return fmt.Errorf("sprite %d update: %w", i, err)
		}
	}

	before := len(g.sprites)
	g.sprites = slices.DeleteFunc(g.sprites, func(s Sprite) bool {
		return s.IsKilled()
	})
	if removed := before - len(g.sprites); removed > 0 {
		g.logger().Debug("Killed sprites removed", "removed", removed, "remaining", len(g.sprites))
	}
	return nil
}

// Draw はスプライトを追加順に dst へアルファ合成で描画する
// ImageAnimation を持つスプライトは変換後の画像を描画し、転送後にその画像を解放する
// （graphics.Releaser を実装している場合）。元画像は解放しない。最初のエラーで中断する
func (g *Group) Draw(dst graphics.Surface) error {
	for i, s := range g.sprites {
		src := s.Image()
		if src == nil {
			continue
		}
		img := src
		if anim := s.ImageAnimation(); anim != nil {
			transformed, err := anim.TransformImage(src)
			if err != nil {
				return fmt.Errorf("sprite %d image animation: %w", i, err)
			}
			img = transformed
		}
		_, err := dst.Blit(img, s.Rect().TopLeft(), graphics.BlendBlend)
		if img != src {
			release(img)
		}
		if err != nil {
			return fmt.Errorf("sprite %d blit: %w", i, err)
		}
	}
	return nil
}

func release(img graphics.Surface) {
	if r, ok := img.(graphics.Releaser); ok {
		r.Release()
	}
}

// PrintDrawOrder は描画順序のリストを出力する
func (g *Group) PrintDrawOrder() string {
	var sb strings.Builder
	sb.WriteString("Draw Order:\n")
	for i, s := range g.sprites {
		state := "alive"
		if s.IsKilled() {
			state = "killed"
		}
		var anims []string
		if s.RectAnimation() != nil {
			anims = append(anims, "rect")
		}
		if s.ImageAnimation() != nil {
			anims = append(anims, "image")
		}
		if len(anims) == 0 {
			anims = append(anims, "static")
		}
		fmt.Fprintf(&sb, "  %d. %T %v (%s) [%s]\n", i+1, s, s.Rect(), state, strings.Join(anims, ","))
	}
	return sb.String()
}
