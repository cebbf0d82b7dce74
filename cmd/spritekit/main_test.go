package main

import (
	"io/fs"
	"testing"

	"github.com/zurustar/spritekit/pkg/scene"
)

// TestEmbeddedScenes 埋め込みシーンがすべて読み込めてスプライトを構築できることを確認
func TestEmbeddedScenes(t *testing.T) {
	scenes, err := fs.Sub(embeddedScenes, "scenes")
	if err != nil {
		t.Fatal(err)
	}
	names, err := fs.Glob(scenes, "*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 {
		t.Fatal("no embedded scenes")
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			sc, err := scene.Load(scenes, name)
			if err != nil {
				t.Fatalf("failed to load: %v", err)
			}
			if sc.Title == "" {
				t.Error("embedded scenes should have a title")
			}
			group, err := sc.Build(scenes, nil)
			if err != nil {
				t.Fatalf("failed to build: %v", err)
			}
			if group.Len() != sc.SpriteCount() {
				t.Errorf("expected %d sprites, got %d", sc.SpriteCount(), group.Len())
			}
			for i := 0; i < 3; i++ {
				if err := group.Update(); err != nil {
					t.Fatalf("update %d: %v", i, err)
				}
			}
		})
	}
}
