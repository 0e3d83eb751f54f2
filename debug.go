package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.design/x/clipboard"

	"github.com/milk9111/thirdperson/common"
	"github.com/milk9111/thirdperson/ecs"
	"github.com/milk9111/thirdperson/ecs/component"
)

// debugOverlay copies the camera pose to the clipboard on F6 so it can be
// pasted into camera.yaml.
type debugOverlay struct {
	clipboardOK bool
	lastCopied  string
}

func newDebugOverlay() *debugOverlay {
	o := &debugOverlay{}
	if err := clipboard.Init(); err != nil {
		log.Warn("debug: clipboard unavailable", "err", err)
	} else {
		o.clipboardOK = true
	}
	return o
}

func (o *debugOverlay) copyCameraPose(w *ecs.World) {
	text, ok := CameraPoseYAML(w)
	if !ok {
		return
	}
	o.lastCopied = text
	if !o.clipboardOK {
		log.Info("camera pose", "yaml", text)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	log.Info("camera pose copied")
}

func (o *debugOverlay) Draw(screen *ebiten.Image) {
	msg := fmt.Sprintf("FPS: %.0f  TPS: %.0f  F6: copy camera pose", ebiten.ActualFPS(), ebiten.ActualTPS())
	ebitenutil.DebugPrintAt(screen, msg, 10, common.BaseHeight-20)
}

// CameraPoseYAML formats the camera translation and its offset from the
// followed target as camera.yaml fields.
func CameraPoseYAML(w *ecs.World) (string, bool) {
	camEntity, err := w.Single(component.CameraTagComponent.Kind())
	if err != nil {
		return "", false
	}
	cam, ok := ecs.Get(w, camEntity, component.TransformComponent.Kind())
	if !ok {
		return "", false
	}
	p := cam.Translation
	out := fmt.Sprintf("transform:\n  position: [%.2f, %.2f, %.2f]\n", p.X(), p.Y(), p.Z())

	if targetEntity, err := w.Single(component.FollowTargetComponent.Kind()); err == nil {
		if target, ok := ecs.Get(w, targetEntity, component.TransformComponent.Kind()); ok {
			// express the offset in the target's frame, as the rig stores it
			local := target.Orientation().Conjugate().Rotate(p.Sub(target.Translation))
			out += fmt.Sprintf("camera_rig:\n  offset: [%.2f, %.2f, %.2f]\n", local.X(), local.Y(), local.Z())
		}
	}
	return out, true
}
