package graphics

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorFromInt は 0xRRGGBB 形式の整数を不透明色に変換する（上位8bitは無視）
func ColorFromInt(c int) color.RGBA {
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xFF}
}

// ColorFromHex は "#rrggbb" または "0xRRGGBB" 形式の文字列を不透明色に変換する
func ColorFromHex(s string) (color.RGBA, error) {
	if digits, ok := cutHexPrefix(s); ok {
		if len(digits) != 6 {
			return color.RGBA{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
		}
		v, err := strconv.ParseUint(digits, 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return ColorFromInt(int(v)), nil
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}, nil
}

func cutHexPrefix(s string) (string, bool) {
	if digits, ok := strings.CutPrefix(s, "0x"); ok {
		return digits, true
	}
	return strings.CutPrefix(s, "0X")
}

// ColorFromHSL はHSL（h: 度, s, l: 0〜1）から不透明色を作成する
// h は360で折り返す
func ColorFromHSL(h, s, l float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b := colorful.Hsl(h, clamp01(s), clamp01(l)).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// toNRGBA は任意の色をストレートアルファの8bit表現に変換する
func toNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
