package window

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/zurustar/spritekit/pkg/sprite"
)

// デバッグオーバーレイの色定義
var (
	overlayBgColor        = color.RGBA{0, 0, 0, 180}     // 半透明黒
	overlayBoxColor       = color.RGBA{0, 255, 0, 255}   // 緑（通常のスプライト）
	overlayAnimBoxColor   = color.RGBA{0, 128, 255, 255} // 青（RectAnimation付き）
	overlayKilledBoxColor = color.RGBA{255, 0, 0, 128}   // 半透明赤（Kill済み）
	overlayPickedBoxColor = color.RGBA{255, 255, 0, 255} // 黄色（カーソル下）
)

// デバッグオーバーレイの定数
const (
	overlayLabelCharWidth  = 6  // ebitenutil.DebugPrintAtの文字幅
	overlayLabelCharHeight = 16 // ebitenutil.DebugPrintAtの文字高さ
	overlayLabelPadding    = 2  // ラベルのパディング
	overlayBoxLine         = 1  // バウンディングボックスの線幅
)

// OverlayOptions はデバッグオーバーレイの表示オプション
type OverlayOptions struct {
	ShowLabels        bool // インデックスと位置を表示
	ShowBoundingBoxes bool // 配置矩形を表示
}

// DefaultOverlayOptions はデフォルトのオプションを返す
func DefaultOverlayOptions() OverlayOptions {
	return OverlayOptions{
		ShowLabels:        true,
		ShowBoundingBoxes: true,
	}
}

// Overlay はスプライトの配置矩形と描画順インデックスを重ねて表示する
// Game の Update/Draw からのみ呼ばれるのでロックは持たない
type Overlay struct {
	enabled bool
	options OverlayOptions
}

// NewOverlay は無効状態の Overlay を作成する
func NewOverlay() *Overlay {
	return &Overlay{options: DefaultOverlayOptions()}
}

func (o *Overlay) SetEnabled(enabled bool) {
	o.enabled = enabled
}

func (o *Overlay) IsEnabled() bool {
	return o.enabled
}

// Toggle は有効/無効を切り替える
func (o *Overlay) Toggle() {
	o.enabled = !o.enabled
}

func (o *Overlay) Options() OverlayOptions {
	return o.options
}

func (o *Overlay) SetOptions(options OverlayOptions) {
	o.options = options
}

// Draw はグループ内のスプライトごとに矩形とラベルを描画する
// picked はカーソル下のスプライト（なければ nil）
func (o *Overlay) Draw(screen *ebiten.Image, sprites []sprite.Sprite, picked sprite.Sprite) {
	if !o.enabled {
		return
	}
	for i, s := range sprites {
		if o.options.ShowBoundingBoxes {
			o.drawBoundingBox(screen, s, boxColor(s, picked))
		}
		if o.options.ShowLabels {
			o.drawLabel(screen, overlayLabel(i, s), s.Rect().X, s.Rect().Y)
		}
	}
}

// boxColor はスプライトの状態に応じた枠の色を返す
func boxColor(s, picked sprite.Sprite) color.Color {
	switch {
	case s.IsKilled():
		return overlayKilledBoxColor
	case picked != nil && s == picked:
		return overlayPickedBoxColor
	case s.RectAnimation() != nil:
		return overlayAnimBoxColor
	default:
		return overlayBoxColor
	}
}

// overlayLabel は "#描画順 (中心x,中心y)" 形式のラベルを返す
func overlayLabel(i int, s sprite.Sprite) string {
	c := s.Rect().Center()
	label := fmt.Sprintf("#%d (%d,%d)", i, c.X, c.Y)
	if s.IsKilled() {
		label += " K"
	}
	return label
}

func (o *Overlay) drawBoundingBox(screen *ebiten.Image, s sprite.Sprite, boxColor color.Color) {
	r := s.Rect()
	if r.Empty() {
		return
	}
	x, y := float32(r.X), float32(r.Y)
	w, h := float32(r.W), float32(r.H)
	line := float32(overlayBoxLine)

	vector.FillRect(screen, x, y, w, line, boxColor, false)
	vector.FillRect(screen, x, y+h-line, w, line, boxColor, false)
	vector.FillRect(screen, x, y, line, h, boxColor, false)
	vector.FillRect(screen, x+w-line, y, line, h, boxColor, false)
}

func (o *Overlay) drawLabel(screen *ebiten.Image, label string, x, y int) {
	bgX := float32(x - overlayLabelPadding)
	bgY := float32(y - overlayLabelPadding)
	bgW := float32(len(label)*overlayLabelCharWidth + overlayLabelPadding*2)
	bgH := float32(overlayLabelCharHeight + overlayLabelPadding*2)
	vector.FillRect(screen, bgX, bgY, bgW, bgH, overlayBgColor, false)

	// DebugPrintAt は白色固定なので、状態の区別は枠の色で行う
	ebitenutil.DebugPrintAt(screen, label, x, y)
}
