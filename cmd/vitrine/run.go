package main

import (
	"context"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/vitrine/internal/config"
	"github.com/taigrr/vitrine/internal/logger"
	"github.com/taigrr/vitrine/pkg/models"
	"github.com/taigrr/vitrine/pkg/render"
	"github.com/taigrr/vitrine/pkg/viewer"
)

// maxFrameDelta caps the animation step after a stall.
const maxFrameDelta = 100 * time.Millisecond

func runViewer(ctx context.Context, cfg *config.Config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	// Enable mouse mode
	fmt.Fprint(os.Stdout, "\x1b[?1003h") // Enable any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // Enable SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	start := time.Now()
	hud := newHUD(start)
	log := logger.Named("viewer").WithOptions(zap.Hooks(hud.Hook))

	container := newTermContainer(width, height)
	doc := termDocument{id: containerID(cfg), container: container}
	sr := render.NewSceneRenderer(0, 0)

	vcfg := cfg.ViewerConfig()
	vcfg.OnModelLoad = func(m *models.Model) { hud.ModelLoaded(m) }

	v, err := viewer.New(doc, vcfg, viewer.WithLogger(log), viewer.WithRenderer(sr))
	if err != nil {
		return err
	}
	defer v.Close()

	if cfg.Render.Watch {
		if err := v.WatchModels(); err != nil {
			log.Warn("watch models", zap.Error(err))
		}
	}

	// Events are handled on this goroutine so the viewer is only touched
	// from one place.
	events := make(chan uv.Event, 64)
	go func() {
		for ev := range term.Events() {
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var in input
	targetDuration := time.Second / time.Duration(cfg.Render.FPS)
	lastFrame := start

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

	drain:
		for {
			select {
			case ev := <-events:
				if ws, ok := ev.(uv.WindowSizeEvent); ok {
					term.Erase()
					term.Resize(ws.Width, ws.Height)
					container.Resize(ws.Width, ws.Height)
					continue
				}
				switch in.handle(ev, v) {
				case actionQuit:
					return nil
				case actionToggleHUD:
					hud.show = !hud.show
				}
			default:
				break drain
			}
		}

		now := time.Now()
		dt := min(now.Sub(lastFrame), maxFrameDelta)
		lastFrame = now

		v.Advance(dt.Seconds())
		hud.UpdateFPS(now)

		term.Draw(uv.DrawableFunc(func(scr uv.Screen, area uv.Rectangle) {
			ca := container.Area()
			sr.Framebuffer().Draw(scr, ca)
			hud.Draw(scr, area, ca, v)
		}))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
