package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/flowcanvas/internal/editor"
	"github.com/aretw0/flowcanvas/internal/script"
	"github.com/aretw0/flowcanvas/pkg/domain"
)

func main() {
	targetDir := "examples/scripts"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	// Ensure dir exists
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating golden path in: %s\n", targetDir)

	origin := domain.Point{X: 100, Y: 80}
	grab := domain.Point{X: 20, Y: 20}
	s := &script.Script{
		Name: "golden path",
		Events: []editor.Event{
			// 1. Two messages dropped from the toolbar
			editor.TemplatePicked{Type: "message"},
			editor.TemplateDropped{Pointer: domain.Point{X: 240, Y: 200}, CanvasOrigin: origin, GrabOffset: grab},
			editor.TemplatePicked{Type: "message"},
			editor.TemplateDropped{Pointer: domain.Point{X: 640, Y: 200}, CanvasOrigin: origin, GrabOffset: grab},
			// 2. A drop outside the canvas is discarded
			editor.TemplatePicked{Type: "message"},
			editor.TemplateDropped{Pointer: domain.Point{X: 20, Y: 20}, OffCanvas: true},
			// 3. Empty canvas click clears the selection
			editor.CanvasClicked{},
		},
	}

	path := filepath.Join(targetDir, "golden-path.yaml")
	f, err := os.Create(path)
	check(err)
	defer f.Close()
	check(script.Encode(f, s))

	fmt.Println("Done. Replay with: flowcanvas play", path)
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
