package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/thirdperson/ecs"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

func NewPlayerAt(w *ecs.World, pos mgl32.Vec3, yaw float32) (ecs.Entity, error) {
	player, err := NewPlayer(w)
	if err != nil {
		return 0, err
	}
	if err := SetEntityPose(w, player, pos, yaw); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return player, nil
}

func NewBotAt(w *ecs.World, pos mgl32.Vec3, yaw float32) (ecs.Entity, error) {
	bot, err := BuildEntity(w, "bot.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityPose(w, bot, pos, yaw); err != nil {
		return 0, fmt.Errorf("bot: override transform: %w", err)
	}
	return bot, nil
}
