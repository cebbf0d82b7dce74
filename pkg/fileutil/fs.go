// Package fileutil provides unified file system access for both real and embedded file systems.
package fileutil

import (
	"io/fs"
	"os"
	"path"
	"strings"
)

// FileSystem は実ファイルシステムと埋め込みファイルシステムを統一的に扱うインターフェース
//
// fs.FS を満たすので graphics.LoadImage などにそのまま渡せる。
// パスは "/" 区切りで、各要素は大文字小文字を無視して解決される。
type FileSystem interface {
	fs.FS
	// ReadFile はファイルの内容を読み込む（大文字小文字を無視）
	ReadFile(name string) ([]byte, error)
	// Exists はファイルが存在するかどうかを返す
	Exists(name string) bool
	// BasePath はベースパスを返す
	BasePath() string
	// IsEmbedded は埋め込みファイルシステムかどうかを返す
	IsEmbedded() bool
}

// caseInsensitiveFS は任意の fs.FS に大文字小文字を無視したパス解決を加える
type caseInsensitiveFS struct {
	fsys     fs.FS
	basePath string
}

func (c *caseInsensitiveFS) Open(name string) (fs.File, error) {
	actual, err := ResolvePath(c.fsys, name)
	if err != nil {
		return nil, err
	}
	return c.fsys.Open(actual)
}

func (c *caseInsensitiveFS) ReadFile(name string) ([]byte, error) {
	actual, err := ResolvePath(c.fsys, name)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(c.fsys, actual)
}

func (c *caseInsensitiveFS) Exists(name string) bool {
	_, err := ResolvePath(c.fsys, name)
	return err == nil
}

func (c *caseInsensitiveFS) BasePath() string {
	return c.basePath
}

// RealFS は実ファイルシステムへのアクセスを提供する
type RealFS struct {
	caseInsensitiveFS
}

// NewRealFS は basePath をルートとする FileSystem を作成する（空なら カレントディレクトリ）
func NewRealFS(basePath string) *RealFS {
	root := basePath
	if root == "" {
		root = "."
	}
	return &RealFS{caseInsensitiveFS{fsys: os.DirFS(root), basePath: basePath}}
}

func (r *RealFS) IsEmbedded() bool {
	return false
}

// EmbedFS は埋め込みファイルシステムへのアクセスを提供する
type EmbedFS struct {
	caseInsensitiveFS
}

// NewEmbedFS は fsys の basePath 以下をルートとする FileSystem を作成する
func NewEmbedFS(fsys fs.FS, basePath string) (*EmbedFS, error) {
	root := fsys
	if base := CleanPath(basePath); base != "." {
		sub, err := fs.Sub(fsys, base)
		if err != nil {
			return nil, err
		}
		root = sub
	}
	return &EmbedFS{caseInsensitiveFS{fsys: root, basePath: basePath}}, nil
}

func (e *EmbedFS) IsEmbedded() bool {
	return true
}

// CleanPath は "\" 区切りや先頭の "/" を含むパスを fs.FS 形式に正規化する
func CleanPath(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimLeft(name, "/")
	if name == "" {
		return "."
	}
	return path.Clean(name)
}

// ResolvePath は name を fsys 上の実際のパスに解決する
// 完全一致を優先し、見つからなければ要素ごとに大文字小文字を無視して探す
func ResolvePath(fsys fs.FS, name string) (string, error) {
	clean := CleanPath(name)
	if clean == "." {
		return clean, nil
	}
	if _, err := fs.Stat(fsys, clean); err == nil {
		return clean, nil
	}

	cur := "."
	for _, seg := range strings.Split(clean, "/") {
		if seg == ".." {
			return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
		}
		found, err := FindFileCaseInsensitiveFS(fsys, cur, seg)
		if err != nil {
			return "", &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
		}
		cur = found
	}
	return cur, nil
}
