package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zurustar/spritekit/pkg/fileutil"
)

// ErrSceneNotFound はシーンファイルが見つからないことを示す
var ErrSceneNotFound = errors.New("scene not found")

// SceneDir は埋め込みファイルシステム内のシーンディレクトリ
const SceneDir = "scenes"

// SceneExt はシーンファイルの拡張子
const SceneExt = ".yaml"

// SceneLocation はシーンファイルの場所を表す
type SceneLocation struct {
	// Name は FileSystem 内のファイル名
	Name string
	// FileSystem はシーンと画像を読み込むファイルシステム（nil は組み込みのデフォルトシーン）
	FileSystem fileutil.FileSystem
	// IsEmbedded は埋め込みシーンかどうか
	IsEmbedded bool
}

// IsDefault は組み込みのデフォルトシーンかどうかを返す
func (l *SceneLocation) IsDefault() bool {
	return l.FileSystem == nil
}

// findScene はシーンファイルを以下の優先順位で探す
//  1. 外部ファイル（ファイル名の大文字小文字は無視）
//  2. 埋め込み scenes ディレクトリ（拡張子 .yaml は省略可、大文字小文字は無視）
//
// name が空の場合はデフォルトシーンを表す場所を返す。
func findScene(scenes fs.FS, name string) (*SceneLocation, error) {
	if name == "" {
		return &SceneLocation{}, nil
	}

	// 1. 外部ファイル
	if found, ok := findExternal(name); ok {
		fsys, file := fileutil.SplitScenePath(found)
		return &SceneLocation{Name: file, FileSystem: fsys}, nil
	}

	// 2. 埋め込みシーン
	if scenes != nil {
		efs, err := fileutil.NewEmbedFS(scenes, SceneDir)
		if err == nil {
			for _, candidate := range sceneCandidates(name) {
				if efs.Exists(candidate) {
					return &SceneLocation{Name: candidate, FileSystem: efs, IsEmbedded: true}, nil
				}
			}
		}
	}

	available := availableScenes(scenes)
	if len(available) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, name)
	}
	return nil, fmt.Errorf("%w: %s (available: %s)", ErrSceneNotFound, name, strings.Join(available, ", "))
}

// findExternal はディスク上のシーンファイルを探す
// そのままのパスで見つからなければ、同じディレクトリから大文字小文字を無視して探す
func findExternal(name string) (string, bool) {
	if isFile(name) {
		return name, true
	}
	dir, file := filepath.Split(name)
	if dir == "" {
		dir = "."
	}
	found, err := fileutil.FindFileCaseInsensitive(dir, file)
	if err != nil || !isFile(found) {
		return "", false
	}
	return found, true
}

func isFile(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

func sceneCandidates(name string) []string {
	name = fileutil.CleanPath(name)
	if path.Ext(name) == "" {
		return []string{name, name + SceneExt}
	}
	return []string{name}
}

// availableScenes は埋め込みシーンの名前（拡張子なし）を名前順に返す
func availableScenes(scenes fs.FS) []string {
	if scenes == nil {
		return nil
	}
	matches, err := fs.Glob(scenes, SceneDir+"/*"+SceneExt)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimSuffix(path.Base(m), SceneExt))
	}
	sort.Strings(names)
	return names
}
