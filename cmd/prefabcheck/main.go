// Command prefabcheck builds every prefab into a scratch world and compiles
// every bot script, so broken YAML or tengo fails before the game starts.
package main

import (
	"flag"
	"io/fs"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/entity"
	"github.com/milk9111/thirdperson/prefabs"
)

// non-entity specs are loaded by their own loaders
var specLoaders = map[string]func() error{
	"arena.yaml": func() error {
		_, err := prefabs.LoadArenaSpec()
		return err
	},
	"health_bar.yaml": func() error {
		_, err := prefabs.LoadHealthBarSpec()
		return err
	},
}

func main() {
	verbose := flag.Bool("v", false, "log every checked file")
	flag.Parse()
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	failed := 0
	names, err := prefabs.Names()
	if err != nil {
		log.Fatal("list prefabs", "err", err)
	}
	for _, name := range names {
		if err := checkPrefab(name); err != nil {
			log.Error("prefab", "file", name, "err", err)
			failed++
			continue
		}
		log.Debug("prefab ok", "file", name)
	}

	scripts, err := fs.Glob(prefabs.ScriptsFS, "scripts/*.tengo")
	if err != nil {
		log.Fatal("list scripts", "err", err)
	}
	for _, path := range scripts {
		name := strings.TrimPrefix(path, "scripts/")
		if err := checkScript(name); err != nil {
			log.Error("script", "file", name, "err", err)
			failed++
			continue
		}
		log.Debug("script ok", "file", name)
	}

	if failed > 0 {
		log.Error("prefab check failed", "errors", failed)
		os.Exit(1)
	}
	log.Info("prefab check passed", "prefabs", len(names), "scripts", len(scripts))
}

func checkPrefab(name string) error {
	if load, ok := specLoaders[name]; ok {
		return load()
	}
	w := ecs.NewWorld()
	_, err := entity.BuildEntity(w, name)
	return err
}

func checkScript(name string) error {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return err
	}
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	_, err = script.Compile()
	return err
}
