// Package window runs a sprite group in an Ebitengine window.
package window

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zurustar/spritekit/pkg/graphics"
	"github.com/zurustar/spritekit/pkg/logger"
	"github.com/zurustar/spritekit/pkg/sprite"
)

var (
	// HUD のテキスト色（白）
	textColor = color.White
	// デフォルトフォント
	defaultFace = text.NewGoXFace(basicfont.Face7x13)
)

// Input はフレームごとの入力状態
type Input interface {
	CursorPosition() (int, int)
	IsMouseButtonJustPressed(button ebiten.MouseButton) bool
	IsKeyJustPressed(key ebiten.Key) bool
}

// ebitenInput は Ebitengine から入力を読む Input
type ebitenInput struct{}

func (ebitenInput) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

func (ebitenInput) IsMouseButtonJustPressed(button ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(button)
}

func (ebitenInput) IsKeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}

// Options はウィンドウの設定
type Options struct {
	Title      string
	Size       image.Point   // 画面（論理）サイズ
	Background color.Color   // 背景色
	FrameRate  int           // 1秒あたりの Update 回数
	Timeout    time.Duration // タイムアウト時間（0は無制限）
	Overlay    bool          // デバッグオーバーレイを最初から表示する
	ShowHUD    bool          // スプライト数とTPSを表示する
}

// Game はEbitengineのゲームインターフェースを実装する
//
// Update でグループを1フレーム進め、Draw で背景を塗ってからグループを描画する。
// 左クリックでカーソル下の最前面スプライトを Kill し、右クリックで最前面、中クリックで最背面へ移す。
// Esc またはタイムアウトで終了する。F1 でオーバーレイ、F2 で描画順のログ出力、F3 でラベルを切り替える。
type Game struct {
	group     *sprite.Group
	opts      Options
	startTime time.Time
	frames    uint64
	killed    int

	input   Input
	overlay *Overlay
	printer *message.Printer
	log     *slog.Logger

	// Draw は error を返せないので、最初のエラーを保存して次の Update で返す
	drawErr error
}

// NewGame Gameを作成
func NewGame(group *sprite.Group, opts Options) *Game {
	if opts.Background == nil {
		opts.Background = color.Black
	}
	overlay := NewOverlay()
	overlay.SetEnabled(opts.Overlay)
	return &Game{
		group:     group,
		opts:      opts,
		startTime: time.Now(),
		input:     ebitenInput{},
		overlay:   overlay,
		printer:   message.NewPrinter(language.English),
		log:       logger.GetLogger(),
	}
}

// SetInput は入力元を差し替える
func (g *Game) SetInput(in Input) {
	g.input = in
}

// Frames は Update が完了した回数を返す
func (g *Game) Frames() uint64 {
	return g.frames
}

// Overlay はデバッグオーバーレイを返す
func (g *Game) Overlay() *Overlay {
	return g.overlay
}

// Update ゲームロジックの更新（Ebitengineが毎フレーム呼び出す）
func (g *Game) Update() error {
	if g.drawErr != nil {
		return g.drawErr
	}

	// タイムアウトチェック
	if g.opts.Timeout > 0 && time.Since(g.startTime) >= g.opts.Timeout {
		g.log.Info("Timeout reached", "timeout", g.opts.Timeout, "frames", g.frames)
		return ebiten.Termination
	}

	if g.input.IsKeyJustPressed(ebiten.KeyEscape) {
		g.log.Info("Escape pressed", "frames", g.frames)
		return ebiten.Termination
	}

	if g.input.IsKeyJustPressed(ebiten.KeyF1) {
		g.overlay.Toggle()
	}
	if g.input.IsKeyJustPressed(ebiten.KeyF2) {
		g.log.Debug("Draw order", "frame", g.frames, "order", g.group.PrintDrawOrder())
	}
	if g.input.IsKeyJustPressed(ebiten.KeyF3) {
		opts := g.overlay.Options()
		opts.ShowLabels = !opts.ShowLabels
		g.overlay.SetOptions(opts)
	}

	if err := g.handleClicks(); err != nil {
		return err
	}

	if err := g.group.Update(); err != nil {
		return fmt.Errorf("frame %d: %w", g.frames, err)
	}
	g.frames++
	return nil
}

// handleClicks はカーソル下の最前面スプライトを操作する
// 左クリック: Kill, 右クリック: 最前面へ, 中クリック: 最背面へ
func (g *Game) handleClicks() error {
	x, y := g.input.CursorPosition()
	p := image.Pt(x, y)

	if g.input.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if s := g.group.SpriteAt(p); s != nil {
			s.Kill()
			g.killed++
			g.log.Debug("Sprite killed by click", "x", x, "y", y, "rect", s.Rect())
		}
	}
	if g.input.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		if s := g.group.SpriteAt(p); s != nil {
			if err := g.group.BringToFront(s); err != nil {
				return err
			}
		}
	}
	if g.input.IsMouseButtonJustPressed(ebiten.MouseButtonMiddle) {
		if s := g.group.SpriteAt(p); s != nil {
			if err := g.group.SendToBack(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Draw 画面描画（Ebitengineが毎フレーム呼び出す）
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(g.opts.Background)

	if err := g.group.Draw(graphics.WrapEbitenImage(screen)); err != nil && g.drawErr == nil {
		g.drawErr = fmt.Errorf("frame %d draw: %w", g.frames, err)
		g.log.Error("Draw failed", "error", err)
	}

	if g.overlay.IsEnabled() {
		x, y := g.input.CursorPosition()
		g.overlay.Draw(screen, g.group.Sprites(), g.group.SpriteAt(image.Pt(x, y)))
	}

	if g.opts.ShowHUD {
		op := &text.DrawOptions{}
		op.GeoM.Translate(8, 8)
		op.ColorScale.ScaleWithColor(textColor)
		text.Draw(screen, g.hudText(ebiten.ActualTPS()), defaultFace, op)
	}
}

// hudText は HUD に表示する文字列を返す
func (g *Game) hudText(tps float64) string {
	return g.printer.Sprintf("sprites: %d  killed: %d  frame: %d  tps: %.1f",
		g.group.Len(), g.killed, g.frames, tps)
}

// Layout 画面サイズを返す
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.opts.Size.X, g.opts.Size.Y
}

// Run GUIモードでウィンドウを実行
func Run(group *sprite.Group, opts Options) error {
	game := NewGame(group, opts)
	game.log.Debug("Initial draw order", "order", group.PrintDrawOrder())

	// ウィンドウ設定
	ebiten.SetWindowSize(opts.Size.X, opts.Size.Y)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if opts.FrameRate > 0 {
		ebiten.SetTPS(opts.FrameRate)
	}

	// ゲームを実行
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("failed to run game: %w", err)
	}

	game.log.Info("Window closed", "frames", game.frames, "remaining", group.Len(), "killed", game.killed)
	return nil
}
