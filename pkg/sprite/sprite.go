// Package sprite provides sprites with pluggable rect/image animations and
// groups that update and draw them as a batch.
package sprite

import (
	"image"

	"github.com/zurustar/spritekit/pkg/graphics"
)

// Sprite は画像・配置矩形・任意のアニメーションを組み合わせた描画オブジェクト
//
// Group は Update で RectAnimation と Update フックを、Draw で ImageAnimation を駆動する。
// 独自の処理が必要な場合は *DefaultSprite を埋め込んで Update を上書きする。
type Sprite interface {
	// Image は元画像を返す
	Image() graphics.Surface
	// Rect は現在の配置矩形を返す
	Rect() graphics.Rect
	// SetRect は配置矩形を設定する
	SetRect(r graphics.Rect)
	// RectAnimation は矩形アニメーションを返す（ない場合は nil）
	RectAnimation() RectAnimation
	// ImageAnimation は画像アニメーションを返す（ない場合は nil）
	ImageAnimation() ImageAnimation
	// Update はアニメーション以外のスプライト固有の更新処理
	Update() error
	// Kill はスプライトを削除対象にする（元に戻すことはできない）
	Kill()
	// IsKilled は削除対象かどうかを返す
	IsKilled() bool
}

// DefaultSprite は Sprite の標準実装
type DefaultSprite struct {
	image          graphics.Surface
	rect           graphics.Rect
	rectAnimation  RectAnimation
	imageAnimation ImageAnimation
	killed         bool
}

// NewSprite は center を中心に画像本来のサイズで配置したスプライトを作成する
func NewSprite(img graphics.Surface, center image.Point) *DefaultSprite {
	return NewAnimatedSprite(img, center, nil, nil)
}

// NewAnimatedSprite はアニメーション付きのスプライトを作成する
// rectAnim, imageAnim はどちらも nil でよい。
// 初期位置は center で明示し、rectAnim がなければその位置に留まる。
func NewAnimatedSprite(img graphics.Surface, center image.Point, rectAnim RectAnimation, imageAnim ImageAnimation) *DefaultSprite {
	var size image.Point
	if img != nil {
		w, h := img.Size()
		size = image.Pt(w, h)
	}
	return &DefaultSprite{
		image:          img,
		rect:           graphics.NewCenterRect(center, size),
		rectAnimation:  rectAnim,
		imageAnimation: imageAnim,
	}
}

func (s *DefaultSprite) Image() graphics.Surface {
	return s.image
}

func (s *DefaultSprite) Rect() graphics.Rect {
	return s.rect
}

func (s *DefaultSprite) SetRect(r graphics.Rect) {
	s.rect = r
}

func (s *DefaultSprite) RectAnimation() RectAnimation {
	return s.rectAnimation
}

func (s *DefaultSprite) ImageAnimation() ImageAnimation {
	return s.imageAnimation
}

// Update は何もしない
func (s *DefaultSprite) Update() error {
	return nil
}

func (s *DefaultSprite) Kill() {
	s.killed = true
}

func (s *DefaultSprite) IsKilled() bool {
	return s.killed
}
