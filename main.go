package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/snowfx/pkg/app"
	"github.com/decker502/snowfx/pkg/embedded"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	tier := flag.String("tier", "", "initial intensity tier (light/medium/heavy)")
	seasonGated := flag.Bool("season", false, "only display during the festive season")
	flag.Parse()

	// 初始化嵌入资源（必须在任何资源加载之前）
	embedded.Init(dataFS)

	snowApp, err := app.NewApp(app.Config{
		Verbose:     *verbose,
		Tier:        *tier,
		SeasonGated: *seasonGated,
	})
	if err != nil {
		log.Fatalf("snowfx initialization failed: %v", err)
	}

	ebiten.SetWindowSize(app.DefaultWindowWidth, app.DefaultWindowHeight)
	ebiten.SetWindowTitle("snowfx - 雪景特效演示")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(snowApp); err != nil {
		log.Fatal(err)
	}
}
