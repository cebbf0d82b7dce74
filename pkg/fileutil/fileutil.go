package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FindFileCaseInsensitive は dir 内の filename を大文字小文字を無視して探し、実際のパスを返す
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.Name(), filename) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("file not found: %s (searched in %s): %w", filename, dir, fs.ErrNotExist)
}

// FindFileCaseInsensitiveFS は fs.FS 版の FindFileCaseInsensitive
// ディレクトリも一致対象に含む（パス要素の解決に使うため）
func FindFileCaseInsensitiveFS(fsys fs.FS, dir, filename string) (string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	// 完全一致を優先
	for _, entry := range entries {
		if entry.Name() == filename {
			return path.Join(dir, entry.Name()), nil
		}
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.Name(), filename) {
			return path.Join(dir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("file not found: %s (searched in %s): %w", filename, dir, fs.ErrNotExist)
}

// SplitScenePath はシーンファイルのパスを、ファイルシステムのルートとファイル名に分ける
// 画像などの相対パスはシーンファイルのディレクトリを基準に解決される
func SplitScenePath(scenePath string) (*RealFS, string) {
	dir, file := filepath.Split(scenePath)
	return NewRealFS(filepath.Clean(dir)), file
}
