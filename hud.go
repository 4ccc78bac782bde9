package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/tannerhall/ravine/sim"
)

func (g *Game) drawHUD(screen *ebiten.Image) {
	if g.errorMsg != "" {
		ebitenutil.DebugPrint(screen, "ERROR: "+g.errorMsg)
		return
	}

	msg := fmt.Sprintf("Coins: %d    FPS: %.2f", g.session.Coins(), ebiten.ActualFPS())
	if g.debug {
		msg += fmt.Sprintf("\nBodies: %d    Culled set: %d    Grounded: %v",
			g.stepper.Registry().Len(), g.stepper.Culler().Tracked(), g.stepper.IsGrounded())
	}

	switch g.session.State() {
	case sim.StateReady:
		msg += "\nREADY - press Space to start"
	case sim.StateGameOver:
		msg += "\nGAME OVER - press R to restart"
	}

	ebitenutil.DebugPrint(screen, msg)
}
