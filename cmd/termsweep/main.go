package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/termsweep/audio"
	"github.com/lixenwraith/termsweep/config"
	"github.com/lixenwraith/termsweep/core"
	"github.com/lixenwraith/termsweep/engine"
	"github.com/lixenwraith/termsweep/minesweeper"
	"github.com/lixenwraith/termsweep/network"
	"github.com/lixenwraith/termsweep/scores"
	"github.com/lixenwraith/termsweep/terminal"
)

var (
	telnetFlag     = flag.String("telnet", "", "Serve over telnet on host:port instead of playing locally")
	configFlag     = flag.String("config", config.DefaultPath, "Config file path")
	difficultyFlag = flag.String("difficulty", "", "beginner, intermediate or expert")
	debugFlag      = flag.Bool("debug", false, "Write logs under the log directory")
	stdioFlag      = flag.Bool("stdio", false, "Use stdin/stdout instead of /dev/tty")
	soundFlag      = flag.Bool("sound", false, "Play sound cues (local mode)")
)

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "termsweep: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configFlag)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg); err != nil {
		return err
	}

	if logFile := setupLogging(cfg.Log.Debug, cfg.Log.Dir); logFile != nil {
		defer logFile.Close()
	}

	var store *scores.Store
	if cfg.Scores.Path != "" {
		store, err = scores.Open(cfg.Scores.Path)
		if err != nil {
			// Best times are optional, play on without them
			log.Printf("[SCORES] disabled: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	if *telnetFlag != "" {
		return serveTelnet(cfg, store)
	}
	return playLocal(cfg, store)
}

// applyFlags overrides file settings with the flags given on the command line
func applyFlags(cfg *config.Config) error {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "telnet":
			cfg.Server.Address = *telnetFlag
		case "difficulty":
			cfg.Game.Difficulty = *difficultyFlag
		case "debug":
			cfg.Log.Debug = *debugFlag
		case "sound":
			cfg.Sound.Enabled = *soundFlag
		}
	})
	return cfg.Validate()
}

// gameOptions builds the per-game options from the current settings
func gameOptions(cfg *config.Config, store *scores.Store) []minesweeper.Option {
	opts := []minesweeper.Option{
		minesweeper.WithTickRate(cfg.Game.TickRate),
		minesweeper.WithFirstClickSafe(cfg.Game.FirstClickSafe),
	}
	if store != nil {
		opts = append(opts, minesweeper.WithScoreBook(store))
	}
	return opts
}

func newGame(cfg *config.Config, store *scores.Store, extra ...minesweeper.Option) (*minesweeper.Game, error) {
	d, err := minesweeper.ParseDifficulty(cfg.Game.Difficulty)
	if err != nil {
		return nil, err
	}
	return minesweeper.New(d, append(gameOptions(cfg, store), extra...)...), nil
}

// playLocal runs one game on the controlling terminal
func playLocal(cfg *config.Config, store *scores.Store) error {
	var extra []minesweeper.Option
	if cfg.Sound.Enabled {
		player := audio.NewPlayer(cfg.Sound.Volume)
		if err := player.Init(); err != nil {
			log.Printf("[AUDIO] continuing without sound: %v", err)
		} else {
			defer player.Close()
			extra = append(extra, minesweeper.WithSound(player))
		}
	}

	game, err := newGame(cfg, store, extra...)
	if err != nil {
		return err
	}
	tickRate := engine.WithTickRate(cfg.Game.TickRate)

	if *stdioFlag {
		raw, err := terminal.NewRawMode(int(os.Stdin.Fd()))
		if err != nil {
			return err
		}
		core.RegisterCrashTerminal(raw)
		defer func() {
			if r := recover(); r != nil {
				core.HandleCrash(r)
			}
		}()
		return engine.RunTTY(game, raw, os.Stdin, os.Stdout, tickRate)
	}

	tty, err := terminal.OpenDevTTY()
	if err != nil {
		return err
	}
	defer tty.Close()

	core.RegisterCrashTerminal(tty)
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	return engine.RunTTY(game, tty, tty, tty, tickRate)
}

// serveTelnet runs the telnet server until interrupted
// Each session gets a fresh game built from the config current at connect time
func serveTelnet(cfg *config.Config, store *scores.Store) error {
	watcher, err := config.Watch(*configFlag, cfg)
	if err != nil {
		// Serving still works, only hot reload is lost
		log.Printf("[CONFIG] hot reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	current := func() *config.Config {
		if watcher == nil {
			return cfg
		}
		return watcher.Current()
	}

	netCfg := &network.Config{
		Address:      cfg.Server.Address,
		MaxSessions:  cfg.Server.MaxSessions,
		IdleTimeout:  cfg.Server.IdleTimeout(),
		WriteTimeout: cfg.Server.WriteTimeout(),
	}

	srv := network.NewServer(netCfg, func(sess *network.Session) error {
		c := current()
		game, err := newGame(c, store, minesweeper.WithSession(sess.ID))
		if err != nil {
			return err
		}
		return engine.RunTelnet(game, sess, sess, engine.WithTickRate(c.Game.TickRate))
	})
	if err := srv.Start(); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "termsweep listening on %s\n", srv.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Printf("[SERVER] shutting down with %d sessions", srv.SessionCount())
	err = srv.Stop()
	srv.Stats().Range(func(name string, value int64) {
		log.Printf("[SERVER] %s=%d", name, value)
	})
	return err
}
