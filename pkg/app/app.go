package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/zurustar/spritekit/pkg/cli"
	"github.com/zurustar/spritekit/pkg/graphics"
	"github.com/zurustar/spritekit/pkg/headless"
	"github.com/zurustar/spritekit/pkg/logger"
	"github.com/zurustar/spritekit/pkg/scene"
	"github.com/zurustar/spritekit/pkg/window"
)

// DefaultTitle はシーンにタイトルがない場合のウィンドウタイトル
const DefaultTitle = "spritekit"

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	log    *slog.Logger
	scenes fs.FS // 埋め込みシーン（scenes/ ディレクトリを含む）
}

// New Applicationを作成
func New(scenes fs.FS) *Application {
	return &Application{
		scenes: scenes,
	}
}

// Run アプリケーションを実行
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp()
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started")

	// 3. シーンの読み込み
	loc, sc, err := app.loadScene()
	if err != nil {
		return fmt.Errorf("failed to load scene: %w", err)
	}

	app.log.Info("Scene loaded",
		"title", sc.Title, "name", loc.Name, "embedded", loc.IsEmbedded, "default", loc.IsDefault(),
		"width", sc.Width, "height", sc.Height, "sprites", sc.SpriteCount())

	// 4. 再生
	if app.config.Headless {
		if err := app.runHeadless(loc, sc); err != nil {
			return fmt.Errorf("failed to run headless: %w", err)
		}
	} else {
		if err := app.runWindow(loc, sc); err != nil {
			return fmt.Errorf("failed to run window: %w", err)
		}
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLogger(app.config.LogLevel); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadScene シーンを探して読み込む
func (app *Application) loadScene() (*SceneLocation, *scene.Scene, error) {
	loc, err := findScene(app.scenes, app.config.ScenePath)
	if err != nil {
		return nil, nil, err
	}
	if loc.IsDefault() {
		return loc, scene.Default(), nil
	}
	sc, err := scene.Load(loc.FileSystem, loc.Name)
	if err != nil {
		return nil, nil, err
	}
	return loc, sc, nil
}

// frameRate コマンドラインで指定されたフレームレート、なければシーンの値を返す
func (app *Application) frameRate(sc *scene.Scene) int {
	if app.config.FrameRate > 0 {
		return app.config.FrameRate
	}
	return sc.FrameRate
}

// runWindow GUIモードで再生
func (app *Application) runWindow(loc *SceneLocation, sc *scene.Scene) error {
	group, err := sc.Build(sceneFS(loc), toEbiten)
	if err != nil {
		return err
	}

	title := sc.Title
	if title == "" {
		title = DefaultTitle
	}

	return window.Run(group, window.Options{
		Title:      title,
		Size:       sc.Size(),
		Background: sc.BackgroundColor(),
		FrameRate:  app.frameRate(sc),
		Timeout:    app.config.Timeout,
		Overlay:    app.config.Overlay,
		ShowHUD:    true,
	})
}

// runHeadless ヘッドレスモードで再生
// フレームレートはコマンドラインで指定された場合のみ実時間に合わせる。
func (app *Application) runHeadless(loc *SceneLocation, sc *scene.Scene) error {
	group, err := sc.Build(sceneFS(loc), nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if app.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, app.config.Timeout)
		defer cancel()
	}

	runner, err := headless.NewRunner(group, headless.Options{
		Size:       sc.Size(),
		Background: sc.BackgroundColor(),
		Frames:     app.config.Frames,
		FrameRate:  app.config.FrameRate,
	})
	if err != nil {
		return err
	}

	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	app.log.Debug("Headless result", "frames", res.Frames, "remaining", res.Remaining, "reason", res.Reason.String())

	if app.config.Snapshot != "" {
		if err := runner.SaveSnapshot(app.config.Snapshot); err != nil {
			return err
		}
	}
	return nil
}

// sceneFS シーンの画像を読み込むファイルシステムを返す
func sceneFS(loc *SceneLocation) fs.FS {
	if loc.FileSystem == nil {
		return nil
	}
	return loc.FileSystem
}

// toEbiten 読み込んだ画像を GPU 側のサーフェスに変換する
func toEbiten(img *graphics.RGBASurface) (graphics.Surface, error) {
	return graphics.NewEbitenSurfaceFromImage(img.Image()), nil
}
