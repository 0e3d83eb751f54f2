package main

import (
	"flag"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	fixedBlend := flag.Float64("fixed-blend", 0, "per-tick camera blend factor in (0,1]; 0 uses the rig sharpness")
	watch := flag.Bool("watch", false, "hot reload prefabs/ and prefabs/scripts/ on change")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	w, h := ebiten.Monitor().Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("thirdperson")

	game, err := NewGame(Options{
		Debug:      *debug,
		FixedBlend: float32(*fixedBlend),
		Watch:      *watch,
	})
	if err != nil {
		log.Fatal("init", "err", err)
	}

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
