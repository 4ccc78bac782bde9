package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tannerhall/ravine/common"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode (config hot reload)")
	seed := flag.Int64("seed", 0, "level generator seed (0 = use config)")
	config := flag.String("config", "", "path to a level generator YAML config")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("ravine")

	game := NewGame(*config, *seed, *debug)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
