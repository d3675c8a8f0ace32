package renderer

import (
	"github.com/richinsley/goshadertrace/graphics"
	"github.com/richinsley/goshadertrace/scene"
)

var moveKeys = []struct {
	key graphics.Key
	dir scene.Direction
}{
	{graphics.KeyW, scene.Forward},
	{graphics.KeyS, scene.Backward},
	{graphics.KeyA, scene.Left},
	{graphics.KeyD, scene.Right},
	{graphics.KeySpace, scene.Up},
	{graphics.KeyLeftShift, scene.Down},
}

// applyInput moves cam by a fixed step per frame, so speed follows the frame
// rate.
func applyInput(ctx graphics.Context, cam *scene.Camera, moveStep, turnStep float32) {
	for _, m := range moveKeys {
		if ctx.IsPressed(m.key) {
			cam.Move(m.dir, moveStep)
		}
	}

	var yaw, pitch float32
	if ctx.IsPressed(graphics.KeyLeft) {
		yaw -= turnStep
	}
	if ctx.IsPressed(graphics.KeyRight) {
		yaw += turnStep
	}
	if ctx.IsPressed(graphics.KeyUp) {
		pitch -= turnStep
	}
	if ctx.IsPressed(graphics.KeyDown) {
		pitch += turnStep
	}
	if yaw != 0 || pitch != 0 {
		cam.Turn(yaw, pitch)
	}
}
