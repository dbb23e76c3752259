// Package main provides the jukeclient entry point.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/jukeclient/internal/app/orchestrator"
	"github.com/osa030/jukeclient/internal/app/playback"
	"github.com/osa030/jukeclient/internal/domain/song"
	"github.com/osa030/jukeclient/internal/infra/audio"
	"github.com/osa030/jukeclient/internal/infra/config"
	"github.com/osa030/jukeclient/internal/infra/gateway"
	"github.com/osa030/jukeclient/internal/infra/identity"
	"github.com/osa030/jukeclient/internal/infra/logger"
	"github.com/osa030/jukeclient/internal/ui/table"
	"github.com/osa030/jukeclient/internal/ui/tui"
)

var (
	app        = kingpin.New("jukeclient", "Terminal client for the shared music queue")
	configPath = app.Flag("config", "Path to config file (default: "+config.DefaultPath+")").String()
	serverURL  = app.Flag("server", "Server base URL (overrides config)").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file").String()
	asUser     = app.Flag("user", "Log in as this user before running a one-shot command").String()

	tuiCmd    = app.Command("tui", "Start the interactive client (default)").Default()
	statusCmd = app.Command("status", "Print session, songs, queue and history")

	// The session cookie ends with the process, so this command mostly
	// manages the username the TUI login prompt is prefilled with.
	loginCmd      = app.Command("login", "Log in once and save (--remember) or clear the username prefilled in the TUI login prompt")
	loginName     = loginCmd.Arg("username", "Username").Required().String()
	loginRemember = loginCmd.Flag("remember", "Prefill the TUI login prompt with this username").Bool()

	logoutCmd = app.Command("logout", "Log out")
	playCmd   = app.Command("play", "Play the current song")
	nextCmd   = app.Command("next", "Skip to the next song")
	prevCmd   = app.Command("prev", "Go back to the previous song")

	enqueueCmd = app.Command("enqueue", "Append a song to the queue")
	enqueueID  = enqueueCmd.Arg("id", "Song ID").Required().Int64()

	addCmd      = app.Command("add", "Add a song to the catalogue")
	addTitle    = addCmd.Arg("title", "Song title").Required().String()
	addArtist   = addCmd.Arg("artist", "Artist name").Required().String()
	addDuration = addCmd.Flag("duration", "Duration in seconds").Default("0").Int()
	addAudioURL = addCmd.Flag("audio-url", "Playable audio URL").String()

	removeCmd = app.Command("remove", "Remove a song from the catalogue")
	removeID  = removeCmd.Arg("id", "Song ID").Required().Int64()

	favCmd = app.Command("fav", "Toggle a song's favorite mark")
	favID  = favCmd.Arg("id", "Song ID").Required().Int64()

	implCmd  = app.Command("impl", "Select the server queue implementation")
	implName = implCmd.Arg("name", "Implementation name").Required().String()

	seedCmd = app.Command("seed", "Load the server's seed data")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, command); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run executes the command. Using a separate function ensures
// defer statements are executed even when returning with an error.
func run(ctx context.Context, command string) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if *serverURL != "" {
		cfg.Server.BaseURL = *serverURL
		if err := cfg.Validate(); err != nil {
			return errors.Wrap(err, "invalid --server")
		}
	}

	interactive := command == tuiCmd.FullCommand()
	closer, err := logger.Init(loggerConfig(cfg, interactive))
	if err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	defer closer.Close()

	origin, err := cfg.Origin()
	if err != nil {
		return err
	}
	gw, err := gateway.New(gateway.Config{BaseURL: cfg.Server.BaseURL})
	if err != nil {
		return err
	}

	store := identity.Open(cfg.Identity.Path, origin)
	defer store.Close()
	if !store.Available() {
		zlog.Warn().Msgf("remembered username storage unavailable at %s", cfg.Identity.Path)
	}

	opts := orchestrator.Options{ForgetOnLogout: cfg.Identity.ForgetOnLogout}
	zlog.Debug().Msgf("server=%s origin=%s command=%s", cfg.Server.BaseURL, origin, command)

	if interactive {
		device, err := audio.New(audio.Config{
			Backend:  cfg.Audio.Backend,
			BaseURL:  cfg.Server.BaseURL,
			Settings: cfg.Audio.Settings,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create audio device")
		}
		defer device.Close()
		return runTUI(ctx, cfg, gw, store, device, opts)
	}

	// One-shot commands exit right away, so they never produce sound.
	player := playback.NewAdapter(audio.NewNullDevice())
	out := table.New(os.Stdout, targetsFor(command)...)
	orch := orchestrator.New(gw, store, player, out, opts)
	out.SetFavorites(orch)

	if *asUser != "" && command != loginCmd.FullCommand() {
		if err := gw.Login(ctx, *asUser); err != nil {
			return errors.Wrapf(err, "failed to log in as %s", *asUser)
		}
	}

	if err := runCommand(ctx, command, orch, out); err != nil {
		return err
	}
	if command == playCmd.FullCommand() || command == nextCmd.FullCommand() || command == prevCmd.FullCommand() {
		fmt.Printf("Player: %s\n", player.State())
	}
	return nil
}

func loggerConfig(cfg *config.Config, interactive bool) logger.Config {
	lc := logger.Config{Output: logger.OutputStderr, Level: cfg.Log.Level}
	// console output would corrupt the TUI
	if interactive {
		lc.Output = logger.OutputFile
		lc.File = cfg.Log.File
	}
	if *verbose {
		lc.Level = "debug"
	}
	if *logfile != "" {
		lc.Output = logger.OutputFile
		lc.File = *logfile
	}
	return lc
}

func targetsFor(command string) []orchestrator.Target {
	if command == favCmd.FullCommand() {
		return []orchestrator.Target{orchestrator.TargetFavorites}
	}
	return table.DefaultTargets
}

func runTUI(ctx context.Context, cfg *config.Config, gw *gateway.Client, store *identity.Store, device audio.Device, opts orchestrator.Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderer := tui.NewRenderer()
	player := playback.NewAdapter(device)
	player.OnEvent(renderer.PlayerEvent)
	orch := orchestrator.New(gw, store, player, renderer, opts)
	model := tui.NewModel(ctx, orch, tui.Options{SyncInterval: cfg.Refresh.Interval})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	renderer.Attach(p)

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return errors.Wrap(err, "error running TUI")
	}
	return nil
}

func runCommand(ctx context.Context, command string, orch *orchestrator.Orchestrator, out *table.Renderer) error {
	switch command {
	case statusCmd.FullCommand():
		return orch.Refresh(ctx)
	case loginCmd.FullCommand():
		return orch.Login(ctx, *loginName, *loginRemember)
	case logoutCmd.FullCommand():
		return orch.Logout(ctx)
	case playCmd.FullCommand():
		return orch.Play(ctx)
	case nextCmd.FullCommand():
		return orch.Next(ctx)
	case prevCmd.FullCommand():
		return orch.Previous(ctx)
	case enqueueCmd.FullCommand():
		return orch.Enqueue(ctx, *enqueueID)
	case addCmd.FullCommand():
		n := song.NewSong{Title: *addTitle, Artist: *addArtist, DurationSec: *addDuration, AudioURL: addAudioURL}
		created, err := orch.AddSong(ctx, n)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s\n", created.Line())
		return nil
	case removeCmd.FullCommand():
		return orch.RemoveSong(ctx, *removeID)
	case favCmd.FullCommand():
		return toggleFavorite(ctx, orch, out, *favID)
	case implCmd.FullCommand():
		return orch.SetImpl(ctx, *implName)
	case seedCmd.FullCommand():
		return orch.SeedFast(ctx)
	default:
		return errors.Newf("unknown command %q", command)
	}
}

// toggleFavorite loads the mirror quietly, then toggles and prints the favorites.
func toggleFavorite(ctx context.Context, orch *orchestrator.Orchestrator, out *table.Renderer, id int64) error {
	out.SetOutput(io.Discard)
	err := orch.Refresh(ctx)
	out.SetOutput(os.Stdout)
	if err != nil {
		return err
	}

	snap := orch.Snapshot()
	if !snap.Session.Authenticated() {
		return errors.New("not logged in (use --user)")
	}
	s, ok := snap.Songs.Find(id)
	if !ok {
		if s, ok = snap.Favorites.Find(id); !ok {
			return errors.Newf("song %d not found", id)
		}
	}
	return orch.ToggleFavorite(ctx, s)
}
