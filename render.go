package main

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/avatar/ecs"
	"github.com/milk9111/avatar/ecs/component"
	"github.com/milk9111/avatar/ecs/system"
)

// pixelsPerUnit maps world units onto the top-down debug view.
const pixelsPerUnit = 40.0

var hudFace ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

// view projects world XZ onto the screen, centered on a focus point. +Z points
// up the screen.
type view struct {
	focus mgl64.Vec3
}

func (v view) project(p mgl64.Vec3) (float32, float32) {
	x := baseWidth/2 + (p.X()-v.focus.X())*pixelsPerUnit
	y := baseHeight/2 - (p.Z()-v.focus.Z())*pixelsPerUnit
	return float32(x), float32(y)
}

func drawScene(screen *ebiten.Image, scene *system.Scene, frames int) {
	screen.Fill(colornames.Darkslategray)

	w := scene.World
	t, ok := ecs.Get(w, scene.Character, component.TransformComponent.Kind())
	if !ok {
		drawHUD(screen, []string{"no character"})
		return
	}
	v := view{focus: t.Position}
	drawGrid(screen, v)

	if cam, ok := ecs.Get(w, scene.Camera, component.CameraComponent.Kind()); ok && cam.Snapped {
		cx, cy := v.project(cam.Position)
		lx, ly := v.project(cam.LookAt)
		vector.StrokeLine(screen, cx, cy, lx, ly, 1, colornames.Lightskyblue, true)
		vector.DrawFilledCircle(screen, cx, cy, 6, colornames.Deepskyblue, true)
	}

	px, py := v.project(t.Position)
	fx, fy := v.project(t.Position.Add(t.Forward().Mul(0.75)))
	body := colornames.Orange
	if !scene.Ready() {
		body = colornames.Gray
	}
	vector.DrawFilledCircle(screen, px, py, 10, body, true)
	vector.StrokeLine(screen, px, py, fx, fy, 3, colornames.White, true)

	drawHUD(screen, hudLines(scene, frames))
}

func drawGrid(screen *ebiten.Image, v view) {
	grid := color.NRGBA{R: 0x40, G: 0x50, B: 0x50, A: 0xff}
	halfW := baseWidth / 2 / pixelsPerUnit
	halfH := baseHeight / 2 / pixelsPerUnit
	minX := math.Floor(v.focus.X() - halfW)
	minZ := math.Floor(v.focus.Z() - halfH)
	for x := minX; x <= v.focus.X()+halfW+1; x++ {
		sx, _ := v.project(mgl64.Vec3{x, 0, 0})
		vector.StrokeLine(screen, sx, 0, sx, baseHeight, 1, grid, false)
	}
	for z := minZ; z <= v.focus.Z()+halfH+1; z++ {
		_, sy := v.project(mgl64.Vec3{0, 0, z})
		vector.StrokeLine(screen, 0, sy, baseWidth, sy, 1, grid, false)
	}
}

func hudLines(scene *system.Scene, frames int) []string {
	w := scene.World
	turn, camera := scene.Policies()
	lines := []string{
		fmt.Sprintf("fps %.0f  tps %.0f  frame %d", ebiten.ActualFPS(), ebiten.ActualTPS(), frames),
		fmt.Sprintf("turn %s  camera %s  (esc to pause)", turn, camera),
	}
	if !scene.Ready() {
		return append(lines, "loading model...")
	}

	if s, ok := ecs.Get(w, scene.Character, component.ActionStateComponent.Kind()); ok {
		lines = append(lines,
			fmt.Sprintf("action %s  moving %t", s.Current, s.IsMoving),
			fmt.Sprintf("attack req %t run %t  emote req %t run %t",
				s.AttackRequested, s.AttackInProgress, s.EmoteRequested, s.EmoteInProgress),
		)
	}
	if a, ok := ecs.Get(w, scene.Character, component.AnimatorComponent.Kind()); ok {
		var weights []string
		for _, role := range component.Roles {
			act := a.Action(role)
			if act == nil {
				continue
			}
			entry := fmt.Sprintf("%s %.2f", role, act.Weight())
			if act.Finished() {
				entry += " done"
			}
			weights = append(weights, entry)
		}
		lines = append(lines, "weights "+strings.Join(weights, "  "))
	}
	return lines
}

func drawHUD(screen *ebiten.Image, lines []string) {
	vector.DrawFilledRect(screen, 8, 8, 420, float32(len(lines)*16+8), color.NRGBA{A: 160}, false)
	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.GeoM.Translate(16, float64(12+i*16))
		op.ColorScale.ScaleWithColor(colornames.White)
		ebtext.Draw(screen, line, hudFace, op)
	}
}
