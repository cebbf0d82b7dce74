package scene

import "errors"

var (
	// ErrNoSprites はシーンにスプライトが1つもないことを示す
	ErrNoSprites = errors.New("scene has no sprites")
	// ErrUnknownAnimation は未知のアニメーション種別を示す
	ErrUnknownAnimation = errors.New("unknown animation type")
	// ErrUnknownShape は未知の図形種別を示す
	ErrUnknownShape = errors.New("unknown shape type")
	// ErrNoImage は image と shape のどちらも指定されていないことを示す
	ErrNoImage = errors.New("sprite needs either image or shape")
	// ErrInvalidPoint は座標の書式が不正であることを示す
	ErrInvalidPoint = errors.New("point must be [x, y] or {x: .., y: ..}")
)
