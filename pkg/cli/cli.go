// Package cli parses command line arguments for spritekit.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultFrames はヘッドレスモードで描画するフレーム数の既定値（色相1周分）
const DefaultFrames = 360

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	ScenePath string        // シーンファイル（YAML）のパス。空なら組み込みシーン
	Headless  bool          // ヘッドレスモード
	Frames    int           // ヘッドレスモードのフレーム数（0 はスプライトがなくなるまで）
	FrameRate int           // フレームレート（0 はシーンの設定に従い、ヘッドレスでは待たない）
	Timeout   time.Duration // タイムアウト時間（0は無制限）
	LogLevel  string        // ログレベル（debug, info, warn, error）
	Snapshot  string        // ヘッドレスモードで最終フレームを書き出す PNG のパス
	Overlay   bool          // 矩形とインデックスのデバッグ表示
	ShowHelp  bool          // ヘルプ表示フラグ
}

// boolFlags は値を取らないフラグ（reorderArgs で次の引数を消費しない）
var boolFlags = map[string]bool{
	"-h": true, "--h": true, "-help": true, "--help": true,
	"-headless": true, "--headless": true,
	"-overlay": true, "--overlay": true,
}

// ParseArgs コマンドライン引数を解析してConfigを返す
func ParseArgs(args []string) (*Config, error) {
	// 引数を並べ替え：フラグを前に、位置引数を後ろに
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("spritekit", flag.ContinueOnError)

	config := &Config{}

	var timeoutSec int
	fs.IntVar(&timeoutSec, "timeout", 0, "タイムアウト時間（秒）")
	fs.IntVar(&timeoutSec, "t", 0, "タイムアウト時間（秒）（短縮形）")
	fs.IntVar(&config.Frames, "frames", -1, "ヘッドレスモードのフレーム数")
	fs.IntVar(&config.Frames, "n", -1, "ヘッドレスモードのフレーム数（短縮形）")
	fs.IntVar(&config.FrameRate, "fps", 0, "フレームレート")
	fs.StringVar(&config.LogLevel, "log-level", "info", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "info", "ログレベル（短縮形）")
	fs.StringVar(&config.Snapshot, "snapshot", "", "最終フレームを書き出すPNGファイル")
	fs.StringVar(&config.Snapshot, "o", "", "最終フレームを書き出すPNGファイル（短縮形）")
	fs.BoolVar(&config.Headless, "headless", false, "ヘッドレスモード")
	fs.BoolVar(&config.Overlay, "overlay", false, "デバッグオーバーレイを表示")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if !config.Headless {
		if headlessEnv := os.Getenv("HEADLESS"); headlessEnv != "" {
			config.Headless = headlessEnv == "1" || strings.ToLower(headlessEnv) == "true"
		}
	}

	if timeoutSec == 0 {
		if timeoutEnv := os.Getenv("TIMEOUT"); timeoutEnv != "" {
			if t, err := strconv.Atoi(timeoutEnv); err == nil && t > 0 {
				timeoutSec = t
			}
		}
	}

	if config.Frames < 0 {
		config.Frames = DefaultFrames
		if framesEnv := os.Getenv("FRAMES"); framesEnv != "" {
			if n, err := strconv.Atoi(framesEnv); err == nil && n >= 0 {
				config.Frames = n
			}
		}
	}

	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	if timeoutSec < 0 {
		return nil, fmt.Errorf("timeout must be non-negative, got %d", timeoutSec)
	}
	config.Timeout = time.Duration(timeoutSec) * time.Second

	if config.FrameRate < 0 {
		return nil, fmt.Errorf("frame rate must be non-negative, got %d", config.FrameRate)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if fs.NArg() > 1 {
		return nil, fmt.Errorf("too many arguments: %v", fs.Args())
	}
	if fs.NArg() == 1 {
		config.ScenePath = fs.Arg(0)
	}

	return config, nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// -t 5 のように値が次の引数にある場合は一緒に移動する
			if strings.Contains(arg, "=") || boolFlags[arg] {
				continue
			}
			if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}

	if len(positional) == 0 {
		return flags
	}
	// "-" で始まるファイル名もフラグとして解釈されないよう "--" で区切る
	flags = append(flags, "--")
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `spritekit - sprite animation player

Usage:
  spritekit [options] [scene.yaml]

Arguments:
  scene.yaml    シーンファイルのパス、または組み込みシーン名（orbit など）
                省略時は組み込みのデモシーン
                画像のパスはシーンファイルのディレクトリからの相対パス

Options:
  -t, --timeout <seconds>     指定秒数後にプログラムを終了（デフォルト: 無制限）
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  -n, --frames <count>        ヘッドレスモードのフレーム数（デフォルト: %d、0 で無制限）
  --fps <rate>                フレームレート（デフォルト: シーンの frame_rate、
                              ヘッドレスでは指定時のみ実時間に合わせる）
  -o, --snapshot <file.png>   ヘッドレスモードの最終フレームをPNGで保存
  --headless                  ヘッドレスモード（GUIなし）
  --overlay                   スプライトの矩形とインデックスを表示（F1 で切り替え）
  -h, --help                  このヘルプを表示

Controls (window):
  左クリック / 右クリック / 中クリック   Kill / 最前面へ / 最背面へ
  F1 / F2 / F3                オーバーレイ / 描画順をログ出力 / ラベル表示
  Esc                         終了

Environment Variables:
  HEADLESS=1                  ヘッドレスモードを有効化
  TIMEOUT=<seconds>           タイムアウト時間（秒）
  LOG_LEVEL=<level>           ログレベル
  FRAMES=<count>              ヘッドレスモードのフレーム数

Examples:
  spritekit                                   デモシーンをウィンドウで再生
  spritekit my/scene.yaml                     シーンファイルを再生
  spritekit spirograph                        組み込みシーンを再生
  spritekit --headless -n 90 -o out.png       90フレーム後の画面をPNGに保存
  HEADLESS=1 spritekit --timeout 10           環境変数でヘッドレスモード
`, DefaultFrames)
}
