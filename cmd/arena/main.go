package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/l1jgo/arena/internal/audio"
	"github.com/l1jgo/arena/internal/config"
	"github.com/l1jgo/arena/internal/core/clock"
	"github.com/l1jgo/arena/internal/core/event"
	"github.com/l1jgo/arena/internal/core/frame"
	"github.com/l1jgo/arena/internal/data"
	"github.com/l1jgo/arena/internal/game"
	"github.com/l1jgo/arena/internal/input"
	"github.com/l1jgo/arena/internal/render"
	"github.com/l1jgo/arena/internal/scripting"
	"github.com/l1jgo/arena/internal/ui"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner() {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m                arena  v0.1.0              \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        terminal arena · Go game loop      \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := max(46-len(title)-1, 3)
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := max(42-len(label)-len(numStr), 3)
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

// ── Main game logic ───────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := flag.String("config", "config/arena.toml", "path to the TOML config file")
	flag.Parse()
	path := *cfgPath
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Load data tables
	printSection("Data")
	tables, err := data.Load(data.Paths{
		Maps:      cfg.Data.Maps,
		Enemies:   cfg.Data.Enemies,
		Abilities: cfg.Data.Abilities,
		Keys:      cfg.Data.Keys,
	})
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	printStat("Maps", tables.Maps.Count())
	printStat("Enemies", tables.Enemies.Count())
	printStat("Abilities", tables.Abilities.Count())
	printStat("Key bindings", tables.Keys.Count())

	// 4. Lua formulas
	luaEngine, err := scripting.NewEngine(cfg.Scripts.Dir, log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("Lua scripts loaded")

	// 5. Audio
	sounds := audio.Open(cfg.Audio, log)
	defer sounds.Close()
	if _, silent := sounds.(audio.Silent); !silent {
		printOK("Audio ready")
	}
	fmt.Println()

	// 6. Terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	// 7. Game, UI and input
	term := render.NewTerminal(screen, tables.Keys)
	timer := clock.NewTimer(cfg.Game.TickRate)
	g := game.New(game.Deps{
		Queue:    frame.NewQueue(),
		Timer:    timer,
		Bus:      event.NewBus(),
		Renderer: term,
		Tables:   tables,
		Formulas: luaEngine,
		Sounds:   sounds,
		Config:   cfg.Game,
		Log:      log,
	})
	machine := ui.NewMachine(g, term, tables.Keys, ui.Options{
		Level:  cfg.Game.DefaultLevel,
		Border: cfg.Display.Border,
	}, log)
	g.OnPlayerDied(func() error { return machine.Trigger("gameover") })
	adapter := input.NewAdapter(cfg.Input.HoldTimeout, term, machine.Holdable)

	if err := machine.Start(); err != nil {
		return fmt.Errorf("main menu: %w", err)
	}

	// 8. Event pump. Fini makes PollEvent return nil, which ends it.
	events := make(chan tcell.Event, 64)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(timer.Rate())
	defer ticker.Stop()

	log.Info("game loop started", zap.Duration("tick", timer.Rate()))

	for {
		select {
		case now := <-ticker.C:
			for _, ev := range adapter.Expire(now) {
				dispatch(machine, ev, log)
			}
			timer.Fire()

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				continue
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC {
					log.Info("quit requested")
					return nil
				}
			}
			for _, iev := range adapter.Translate(ev, time.Now()) {
				dispatch(machine, iev, log)
			}

		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// dispatch feeds one input event to the state machine. Ignored triggers are
// logged at debug; anything else is a fault.
func dispatch(m *ui.Machine, ev input.Event, log *zap.Logger) {
	err := m.Handle(ev)
	switch {
	case err == nil:
	case ui.IsDiagnostic(err):
		log.Debug("input ignored", zap.Stringer("event", ev), zap.Error(err))
	default:
		log.Error("input failed", zap.Stringer("event", ev), zap.Error(err))
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	// The terminal owns stdout and stderr while the game runs.
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
