// Package headless runs a sprite group without a window, drawing into an
// in-memory RGBA surface.
package headless

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zurustar/spritekit/pkg/clock"
	"github.com/zurustar/spritekit/pkg/graphics"
	"github.com/zurustar/spritekit/pkg/logger"
	"github.com/zurustar/spritekit/pkg/sprite"
)

// StopReason はフレームループが終了した理由
type StopReason int

const (
	StopFrames   StopReason = iota // 指定フレーム数に達した
	StopEmpty                      // グループが空になった
	StopCanceled                   // コンテキストがキャンセルされた（タイムアウトを含む）
)

func (r StopReason) String() string {
	switch r {
	case StopFrames:
		return "frames"
	case StopEmpty:
		return "empty"
	case StopCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Options はヘッドレス実行の設定
type Options struct {
	Size       image.Point // 画面サイズ
	Background color.Color // 背景色（nil は黒）
	Frames     int         // 実行するフレーム数（0 はグループが空になるかキャンセルされるまで）
	FrameRate  int         // フレームレート（0 は待たずに実行）

	// OnFrame は各フレームの描画後に呼ばれる（nil 可）
	OnFrame func(frame int, screen *graphics.RGBASurface) error
}

// Result はヘッドレス実行の結果
type Result struct {
	Frames    int           // 描画したフレーム数
	Remaining int           // 終了時に残っていたスプライト数
	Elapsed   time.Duration // 経過時間
	Reason    StopReason
}

// Runner はウィンドウなしでフレームループを回す
type Runner struct {
	group  *sprite.Group
	opts   Options
	screen *graphics.RGBASurface
	clock  *clock.Clock
	log    *slog.Logger
}

// NewRunner は opts.Size の描画先を持つ Runner を作成する
func NewRunner(group *sprite.Group, opts Options) (*Runner, error) {
	if opts.Frames < 0 {
		return nil, fmt.Errorf("frames must be non-negative, got %d", opts.Frames)
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}
	screen, err := graphics.NewRGBASurface(opts.Size.X, opts.Size.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	return &Runner{
		group:  group,
		opts:   opts,
		screen: screen,
		clock:  clock.New(),
		log:    logger.GetLogger(),
	}, nil
}

// SetClock はフレームの計時に使う Clock を差し替える
func (r *Runner) SetClock(c *clock.Clock) {
	r.clock = c
}

// Screen は描画先のサーフェスを返す（最後に描画したフレームが残っている）
func (r *Runner) Screen() *graphics.RGBASurface {
	return r.screen
}

// Run はフレームループを実行する
//
// 各フレームで Update → 背景の塗りつぶし → Draw の順に処理する。
// Update 後にグループが空になった場合は、そのフレームを描画してから終了する。
// Update または Draw のエラーはその時点で返す。
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{Reason: StopFrames}
	start := time.Now()
	r.log.Info("Headless run started",
		"width", r.opts.Size.X, "height", r.opts.Size.Y,
		"frames", r.opts.Frames, "frameRate", r.opts.FrameRate, "sprites", r.group.Len())
	r.log.Debug("Initial draw order", "order", r.group.PrintDrawOrder())

	r.clock.Tick()
	for r.opts.Frames == 0 || res.Frames < r.opts.Frames {
		if err := ctx.Err(); err != nil {
			res.Reason = StopCanceled
			break
		}

		if err := r.frame(res.Frames); err != nil {
			return r.finish(res, start), err
		}
		res.Frames++

		if r.opts.FrameRate > 0 {
			r.clock.TickFrameRate(r.opts.FrameRate)
		} else {
			r.clock.Tick()
		}

		if r.group.Empty() {
			res.Reason = StopEmpty
			break
		}
	}

	r.finish(res, start)
	return res, nil
}

func (r *Runner) frame(n int) error {
	if err := r.group.Update(); err != nil {
		return fmt.Errorf("frame %d: %w", n, err)
	}
	if err := r.screen.Fill(r.opts.Background); err != nil {
		return fmt.Errorf("frame %d: %w", n, err)
	}
	if err := r.group.Draw(r.screen); err != nil {
		return fmt.Errorf("frame %d draw: %w", n, err)
	}
	if r.opts.OnFrame != nil {
		if err := r.opts.OnFrame(n, r.screen); err != nil {
			return fmt.Errorf("frame %d hook: %w", n, err)
		}
	}
	r.log.Debug("Frame rendered", "frame", n, "sprites", r.group.Len())
	return nil
}

func (r *Runner) finish(res *Result, start time.Time) *Result {
	res.Remaining = r.group.Len()
	res.Elapsed = time.Since(start)
	r.log.Info("Headless run finished", "summary", Summary(res), "reason", res.Reason.String())
	return res
}

// Summary は結果を1行の文字列にまとめる
func Summary(res *Result) string {
	p := message.NewPrinter(language.English)
	fps := 0.0
	if res.Elapsed > 0 {
		fps = float64(res.Frames) / res.Elapsed.Seconds()
	}
	return p.Sprintf("%d frames, %d sprites remaining, %.1f fps", res.Frames, res.Remaining, fps)
}

// SaveSnapshot は最後に描画したフレームを PNG ファイルとして保存する
func (r *Runner) SaveSnapshot(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if err := r.screen.SavePNG(f); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	r.log.Info("Snapshot saved", "path", path)
	return nil
}
