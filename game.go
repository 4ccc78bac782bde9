package main

import (
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/tannerhall/ravine/common"
	"github.com/tannerhall/ravine/levelgen"
	"github.com/tannerhall/ravine/obj"
	"github.com/tannerhall/ravine/physics"
	"github.com/tannerhall/ravine/sim"
)

// drawable is anything rendered in camera space.
type drawable interface {
	Body() physics.BodyHandle
	Draw(screen *ebiten.Image, camX, camY float64)
}

type Game struct {
	frames int
	debug  bool

	input   *obj.Input
	camera  *obj.Camera
	engine  *physics.Engine
	session *sim.Session
	stepper *sim.Stepper

	spec    *levelgen.Spec
	watcher *levelgen.Watcher

	player    *obj.Player
	drawables []drawable

	pauseUI *ebitenui.UI

	// errorMsg is set when the player body cannot be created; the game
	// surfaces it instead of continuing silently.
	errorMsg string
}

func NewGame(configPath string, seed int64, debug bool) *Game {
	spec := levelgen.DefaultSpec()
	if configPath != "" {
		s, err := levelgen.LoadSpec(configPath)
		if err != nil {
			log.Printf("Game: falling back to default level spec: %v", err)
		} else {
			spec = s
		}
	}
	if seed != 0 {
		spec.Seed = seed
	}

	engine := physics.NewEngine(common.Gravity)
	session := sim.NewSession()

	g := &Game{
		debug:   debug,
		input:   obj.NewInput(),
		camera:  obj.NewCamera(common.BaseWidth, common.BaseHeight),
		engine:  engine,
		session: session,
		spec:    spec,
	}
	g.stepper = sim.NewStepper(engine, session,
		func(id int) { g.onCoinCollected(id) },
		func() { g.onPlayerDied() },
	)
	g.pauseUI = NewPauseUI(g)

	g.buildLevel()

	if debug && configPath != "" {
		w, err := levelgen.NewWatcher(configPath)
		if err != nil {
			log.Printf("Game: config watcher unavailable: %v", err)
		} else {
			g.watcher = w
		}
	}

	return g
}

// buildLevel consumes the generator's placement requests and spawns the
// level into the existing physics world.
func (g *Game) buildLevel() {
	lvl := levelgen.Generate(g.spec)
	registry := g.stepper.Registry()
	culler := g.stepper.Culler()

	for _, pl := range lvl.Placements {
		switch pl.Kind {
		case levelgen.PlacePlatform:
			p := obj.NewPlatform(g.engine, pl.Rect)
			if p == nil {
				continue
			}
			registry.Register(p.Body(), p, physics.PlatformTag{})
			g.drawables = append(g.drawables, p)
		case levelgen.PlaceCoin:
			c := obj.NewCoin(g.engine, pl.CoinID, pl.Rect.X, pl.Rect.Y, g.stepper.QueueBodyDestroy)
			if c == nil {
				continue
			}
			registry.Register(c.Body(), c, physics.CoinTag{ID: pl.CoinID})
			g.drawables = append(g.drawables, c)
		case levelgen.PlaceCrate:
			size := levelgen.CrateEdge()
			c := obj.NewCrate(g.engine, pl.Rect.X, pl.Rect.Y, size)
			if c == nil {
				continue
			}
			registry.Register(c.Body(), c, physics.CrateTag{Size: size})
			culler.Track(c.Body())
			g.drawables = append(g.drawables, c)
		case levelgen.PlaceEnemy:
			e := obj.NewEnemy(g.engine, pl.Rect.X, pl.Rect.Y, pl.PatrolMinX, pl.PatrolMaxX)
			if e == nil {
				continue
			}
			registry.Register(e.Body(), e, physics.EnemyTag{})
			culler.Track(e.Body())
			g.drawables = append(g.drawables, e)
		}
	}

	ds := obj.NewDeathSensor(g.engine, lvl.KillStrip)
	if ds != nil {
		registry.Register(ds.Body(), ds, physics.DeathSensorTag{})
	}

	g.camera.SetLevelBounds(lvl.Bounds)

	if g.player == nil {
		p, err := obj.NewPlayer(g.engine, g.stepper.Grounding(), g.input, lvl.SpawnX, lvl.SpawnY)
		if err != nil {
			log.Printf("Game: %v", err)
			g.errorMsg = "failed to create player body - cannot start"
			return
		}
		g.player = p
		registry.Register(p.Body(), p, physics.PlayerTag{})
	} else {
		g.player.Respawn(lvl.SpawnX, lvl.SpawnY)
	}
	g.camera.SnapTo(lvl.SpawnX, lvl.SpawnY)
}

// clearLevel queues every non-player entity for destruction and flushes
// immediately. Restart is a synchronous action inside the frame; the
// physics world itself is preserved.
func (g *Game) clearLevel() {
	registry := g.stepper.Registry()
	var player physics.BodyHandle
	if g.player != nil {
		player = g.player.Body()
	}
	registry.Each(func(h physics.BodyHandle, _ sim.Entity) {
		if h != player {
			registry.QueueDestroy(h)
		}
	})
	registry.FlushDestroyed()
	g.drawables = g.drawables[:0]
}

func (g *Game) restart() {
	if !g.session.Transition(sim.StateReady) {
		return
	}
	g.clearLevel()
	g.buildLevel()
}

func (g *Game) resumeFromPause() {
	g.session.Transition(sim.StatePlaying)
}

func (g *Game) onCoinCollected(id int) {
	log.Printf("Game: collected coin %d (%d total)", id, g.session.Coins())
}

func (g *Game) onPlayerDied() {
	log.Printf("Game: run over with %d coins", g.session.Coins())
}

func (g *Game) Update() error {
	g.frames++
	g.input.Update()

	if g.watcher != nil {
		select {
		case path := <-g.watcher.Events:
			g.reloadSpec(path)
		case err := <-g.watcher.Errors:
			log.Printf("Game: config watcher: %v", err)
		default:
		}
	}

	switch g.session.State() {
	case sim.StateReady:
		if g.errorMsg == "" && g.input.StartPressed {
			g.session.Transition(sim.StatePlaying)
		}
	case sim.StatePlaying:
		if g.input.PausePressed {
			g.session.Transition(sim.StatePaused)
		}
	case sim.StatePaused:
		if g.input.PausePressed {
			g.resumeFromPause()
		}
		g.pauseUI.Update()
	case sim.StateGameOver:
		if g.input.RestartPressed {
			g.restart()
		}
	}

	g.stepper.Frame(g.camera.Bounds())

	if g.player != nil && g.session.State() == sim.StatePlaying {
		pos := g.player.Position()
		g.camera.Follow(pos.X, pos.Y)
	}

	return nil
}

func (g *Game) reloadSpec(path string) {
	spec, err := levelgen.LoadSpec(path)
	if err != nil {
		log.Printf("Game: config reload rejected: %v", err)
		return
	}
	log.Printf("Game: config reloaded from %s, regenerating level", path)
	g.spec = spec
	g.clearLevel()
	g.buildLevel()
}

func (g *Game) Draw(screen *ebiten.Image) {
	camX, camY := g.camera.ViewTopLeft()
	registry := g.stepper.Registry()

	for _, d := range g.drawables {
		// Destroyed bodies drop out of the registry; stop drawing them.
		if _, ok := registry.Lookup(d.Body()); !ok {
			continue
		}
		d.Draw(screen, camX, camY)
	}
	if g.player != nil {
		g.player.Draw(screen, camX, camY)
	}

	g.drawHUD(screen)

	if g.session.State() == sim.StatePaused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}
