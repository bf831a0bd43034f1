package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/bounce/config"
	"github.com/pthm-cable/bounce/game"
	"github.com/pthm-cable/bounce/sim"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	perfLog := flag.Bool("perf-log", false, "Print per-phase timings every 120 frames (graphical mode)")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotPath := flag.String("snapshot", "", "Snapshot file to restore before the first frame")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Spawn RNG seed (0 = use config)")
	workers := flag.Int("workers", 0, "Parallel collision workers (0 = GOMAXPROCS)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}
	if *seed != 0 {
		cfg.Spawn.Seed = *seed
	}

	simOpts := sim.Options{
		OutputDir: *outputDir,
		LogStats:  *logStats,
		Workers:   *workers,
	}

	if *headless {
		os.Exit(runHeadless(cfg, simOpts, *snapshotPath, *snapshotDir, *maxFrames))
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Bounce")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, game.Options{
		Sim:         simOpts,
		SnapshotDir: *snapshotDir,
		PerfLog:     *perfLog,
	})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return
	}
	defer g.Unload()

	if *snapshotPath != "" {
		if err := g.Simulation().LoadSnapshot(*snapshotPath); err != nil {
			slog.Error("failed to load snapshot", "error", err)
			return
		}
	}

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxFrames > 0 && g.Frame() >= *maxFrames {
			break
		}
	}
}

// runHeadless advances the simulation with the fixed frame time as the frame
// delta and returns the process exit code.
func runHeadless(cfg *config.Config, opts sim.Options, snapshotPath, snapshotDir string, maxFrames int64) int {
	s, err := sim.New(cfg, opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		return 1
	}
	defer s.Close()

	if snapshotPath != "" {
		if err := s.LoadSnapshot(snapshotPath); err != nil {
			slog.Error("failed to load snapshot", "error", err)
			return 1
		}
	}

	slog.Info("starting headless simulation",
		"capacity", cfg.Particles.Capacity,
		"substeps", cfg.Physics.Substeps,
		"collision", cfg.Physics.Collision,
		"integrator", cfg.Physics.Integrator,
		"parallel", cfg.Physics.Parallel,
		"max_frames", maxFrames,
	)

	frameDT := cfg.Derived.FrameDT32
	for maxFrames <= 0 || s.Frame() < maxFrames {
		if err := s.Update(frameDT); err != nil {
			slog.Error("simulation update failed", "frame", s.Frame(), "error", err)
			return 1
		}
	}
	slog.Info("max frames reached", "frame", s.Frame(), "particles", s.Particles().Len())

	if snapshotDir != "" {
		path, err := s.SaveSnapshot(snapshotDir)
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
			return 1
		}
		slog.Info("snapshot saved", "path", path)
	}
	return 0
}
