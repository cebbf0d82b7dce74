package graphics

import "errors"

var (
	// ErrSurfaceMismatch は異なる実装のSurface同士で描画しようとした場合のエラー
	ErrSurfaceMismatch = errors.New("surface implementation mismatch")

	// ErrInvalidSize は幅または高さが正でない場合のエラー
	ErrInvalidSize = errors.New("invalid surface size")

	// ErrUnsupportedBlendMode は未対応のブレンドモードが指定された場合のエラー
	ErrUnsupportedBlendMode = errors.New("unsupported blend mode")

	// ErrNoFrames はアニメーション画像にフレームが含まれていない場合のエラー
	ErrNoFrames = errors.New("image has no frames")
)
