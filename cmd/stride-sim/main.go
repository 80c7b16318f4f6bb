// Command stride-sim runs a headless character simulation: a floating
// character walks across a floor, jumps a gap onto a moving platform, and
// dashes off it. Useful for tuning spec files without a game host — point
// -config at a yaml spec and edit it live with -watch.
package main

import (
	"flag"
	"log"
	"math"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/stride"
	"github.com/milk9111/stride/chipmunk"
	"github.com/milk9111/stride/config"
)

func main() {
	configPath := flag.String("config", "", "controller spec yaml (optional, built-in defaults otherwise)")
	watch := flag.Bool("watch", false, "reload -config on change")
	steps := flag.Int("steps", 600, "simulation steps to run")
	dt := flag.Float64("dt", 1.0/60, "fixed step size in seconds")
	flag.Parse()

	cfg := defaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadController(*configPath)
		if err != nil {
			log.Fatalf("stride-sim: %v", err)
		}
		cfg = loaded
	}

	gravity := mgl64.Vec3{0, -30, 0}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{X: gravity.X(), Y: gravity.Y()})

	// floor with a gap, then a drifting one-way platform the character can
	// land on from above and drop back through
	space.AddShape(cp.NewSegment(space.StaticBody, cp.Vector{X: -5, Y: 0}, cp.Vector{X: 8, Y: 0}, 0))
	platform := cp.NewKinematicBody()
	platform.SetPosition(cp.Vector{X: 11, Y: 0})
	platform.SetVelocityVector(cp.Vector{X: 1, Y: 0})
	space.AddBody(platform)
	platformShape := space.AddShape(cp.NewSegment(platform, cp.Vector{X: -2, Y: 0}, cp.Vector{X: 2, Y: 0}, 0))

	body := cp.NewBody(1, math.Inf(1)) // characters do not tumble
	body.SetPosition(cp.Vector{X: 0, Y: cfg.FloatHeight})
	space.AddBody(body)
	space.AddShape(cp.NewBox(body, 0.8, 1.6, 0))

	be := chipmunk.New(space, gravity)
	be.MarkPassThrough(platformShape)
	handle := be.Register(body)

	ctrl, err := stride.NewController(be, handle, cfg)
	if err != nil {
		log.Fatalf("stride-sim: %v", err)
	}
	ctrl.SetBasis(stride.NewFloatingWalk(cfg))
	fallThrough := stride.NewFallThroughHelper(cfg.FloatHeight / 2)
	ctrl.SetGroundFilter(fallThrough.Filter)
	sched := stride.NewScheduler(ctrl)

	var watcher *config.Watcher
	if *watch && *configPath != "" {
		watcher, err = config.NewWatcher(filepath.Dir(*configPath))
		if err != nil {
			log.Fatalf("stride-sim: watch: %v", err)
		}
		defer watcher.Close()
	}

	for i := 0; i < *steps; i++ {
		if watcher != nil {
			select {
			case path := <-watcher.Events:
				loaded, err := config.LoadController(path)
				if err != nil {
					log.Printf("stride-sim: reload %s: %v", path, err)
					break
				}
				if err := ctrl.SetConfig(loaded); err != nil {
					log.Printf("stride-sim: reload %s: %v", path, err)
					break
				}
				ctrl.SetBasis(stride.NewFloatingWalk(loaded))
				log.Printf("stride-sim: reloaded %s", path)
			default:
			}
		}

		ctrl.SetIntent(stride.Intent{
			DesiredVelocity: mgl64.Vec3{4, 0, 0},
			DesiredForward:  mgl64.Vec3{1, 0, 0},
		})
		fallThrough.SetFalling(i >= 380 && i < 390)
		switch {
		case i == 100:
			ctrl.Trigger(stride.NewJump(ctrl.Config()))
		case i >= 300 && i < 360:
			// held crouch while riding the platform
			ctrl.Trigger(stride.NewCrouch(ctrl.Config()))
		case i == 420:
			ctrl.Trigger(stride.NewDash(ctrl.Config(), mgl64.Vec3{1, 0, 0}))
		}

		if err := sched.Step(*dt); err != nil {
			log.Fatalf("stride-sim: step %d: %v", i, err)
		}
		space.Step(*dt)

		if i%30 == 0 {
			pos, _ := be.Position(handle)
			log.Printf("step %4d pos=(%6.2f, %5.2f) grounded=%-5v basis=%s action=%q phase=%q",
				i, pos.X(), pos.Y(), ctrl.Grounded(), ctrl.BasisName(), ctrl.ActiveAction(), ctrl.ActionPhase())
		}
	}
}

// defaultConfig is a reasonable platformer tuning for the demo world.
func defaultConfig() stride.Config {
	return stride.Config{
		FloatHeight:          1.0,
		CastSlack:            0.5,
		SpringStrength:       40,
		SpringDamping:        8,
		Acceleration:         30,
		AirAcceleration:      10,
		MaxSlope:             45 * math.Pi / 180,
		TurnSpeed:            2 * math.Pi,
		CoyoteTime:           0.15,
		FreeFallExtraGravity: 10,
		Jump: stride.JumpConfig{
			Speed:               9,
			BufferTime:          0.2,
			HoldExtend:          12,
			MaxHold:             0.3,
			MaxDuration:         2,
			FallExtraGravity:    15,
			ShortenExtraGravity: 40,
		},
		Crouch: stride.CrouchConfig{
			HeightOffset: -0.5,
			SpeedFactor:  0.4,
			SinkTime:     0.125,
			RiseTime:     0.125,
		},
		Dash: stride.DashConfig{
			Speed:      25,
			Distance:   5,
			Brake:      80,
			AllowInAir: true,
		},
	}
}
