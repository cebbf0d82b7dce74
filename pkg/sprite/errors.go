package sprite

import "errors"

// スプライト関連のエラー定義
var (
	// ErrSpriteNotFound はスプライトがグループに含まれていない場合のエラー
	ErrSpriteNotFound = errors.New("sprite not found in group")

	// ErrHoldCount はフレーム数と表示回数の数が一致しない場合のエラー
	ErrHoldCount = errors.New("frame hold count mismatch")
)
