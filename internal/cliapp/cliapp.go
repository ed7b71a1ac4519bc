// ABOUTME: Root CLI command tree — local solve, JSON output, and the --serve HTTP mode
// ABOUTME: Thin external shell over internal/ga, internal/dispatch and internal/httpapi

package cliapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	progressbar "github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/benbjohnson/clock"

	"github.com/stojg/ga-assign/internal/config"
	"github.com/stojg/ga-assign/internal/dispatch"
	"github.com/stojg/ga-assign/internal/ga"
	"github.com/stojg/ga-assign/internal/httpapi"
	"github.com/stojg/ga-assign/internal/model"
	"github.com/stojg/ga-assign/internal/progress"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Command builds the root ga-assign CLI command (spec.md §6's CLI surface:
// positional input file, --output, --local, --runs, --serve/--host/--port).
func Command() *cli.Command {
	return &cli.Command{
		Name:      "ga-assign",
		Usage:     "solve a student/group assignment problem with a genetic algorithm",
		UsageText: "ga-assign [options] <input.json|->",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Usage: "write ProblemOutput JSON to this file (default: stdout)"},
			&cli.BoolFlag{Name: "local", Usage: "show a progress bar and grouped human-readable output"},
			&cli.IntFlag{Name: "runs", Usage: "number of independent GA runs", Value: ga.DefaultRuns},
			&cli.BoolFlag{Name: "serve", Usage: "run as an HTTP dispatch server instead of solving once"},
			&cli.StringFlag{Name: "host", Usage: "HTTP server bind host (--serve only)", Value: "0.0.0.0"},
			&cli.IntFlag{Name: "port", Usage: "HTTP server bind port (--serve only, default from PORT env or 8000)"},
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging to ga-assign-debug.log"},
			&cli.StringFlag{Name: "config", Usage: "path to a TOML config file overriding GA defaults"},
		},
		Action: run,
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		if err := SetupDebugLog("ga-assign-debug.log"); err != nil {
			return fmt.Errorf("failed to set up debug log: %w", err)
		}
	}

	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if cmd.Bool("serve") {
		return runServe(ctx, cmd, cfg)
	}
	return runSolveOnce(ctx, cmd, cfg)
}

func loadConfig(path string) (config.GAConfig, error) {
	if path == "" {
		path = config.GetConfigPath()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command, cfg config.GAConfig) error {
	host := cmd.String("host")
	if host == "" {
		host = cfg.Host
	}

	port := int(cmd.Int("port"))
	if port == 0 {
		if envPort := os.Getenv("PORT"); envPort != "" {
			if p, err := strconv.Atoi(envPort); err == nil {
				port = p
			}
		}
	}
	if port == 0 {
		port = cfg.Port
	}

	d := dispatch.NewDispatcher(cfg.MaxConcurrentSolves, ga.SolveOptions{
		Runs:   cfg.Runs,
		Params: paramsFromConfig(cfg),
	})
	server := httpapi.NewServer(d, 10)

	addr := fmt.Sprintf("%s:%d", host, port)
	fmt.Printf("Starting server on %s\n", addr)

	httpServer := &http.Server{Addr: addr, Handler: server}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: server shutdown error: %v", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func runSolveOnce(ctx context.Context, cmd *cli.Command, cfg config.GAConfig) error {
	if cmd.Args().Len() != 1 {
		return cli.Exit("Usage: ga-assign [options] <input.json|->", 1)
	}

	inputPath := cmd.Args().Get(0)
	problem, err := readProblem(inputPath)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := problem.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	runs := int(cmd.Int("runs"))
	if runs <= 0 {
		runs = ga.DefaultRuns
	}
	params := paramsFromConfig(cfg)

	opts := ga.SolveOptions{Runs: runs, Params: params}

	local := cmd.Bool("local")
	var tracker *progress.Tracker
	var updates chan progress.Update
	var bar *progressbar.ProgressBar

	if local {
		updates = make(chan progress.Update, 16)
		tracker = progress.NewTracker(updates, clock.New())
		opts.Tracker = tracker
		bar = progressbar.NewOptions(runs*params.Generations,
			progressbar.OptionSetDescription("solving"),
			progressbar.OptionShowCount(),
		)
		go drainProgress(updates, bar)
	}

	out, err := ga.Solve(ctx, problem, opts)
	if local {
		close(updates)
	}
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if local {
		printLocalSummary(out)
	}

	return writeOutput(cmd.String("output"), out)
}

func paramsFromConfig(cfg config.GAConfig) ga.Params {
	p := ga.DefaultParams()
	if cfg.PopulationSize > 0 {
		p.PopulationSize = cfg.PopulationSize
	}
	if cfg.Generations > 0 {
		p.Generations = cfg.Generations
	}
	if cfg.CrossoverRate > 0 {
		p.CrossoverRate = cfg.CrossoverRate
	}
	if cfg.MutationRate > 0 {
		p.MutationRate = cfg.MutationRate
	}
	if cfg.Elitism > 0 {
		p.Elitism = cfg.Elitism
	}
	return p
}

func readProblem(path string) (*model.ProblemInput, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	var problem model.ProblemInput
	if err := json.NewDecoder(r).Decode(&problem); err != nil {
		return nil, fmt.Errorf("failed to parse input JSON: %w", err)
	}
	return &problem, nil
}

func writeOutput(path string, out model.ProblemOutput) error {
	payload, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if path == "" {
		fmt.Println(string(payload))
		return nil
	}

	if err := os.WriteFile(path, payload, 0644); err != nil {
		return cli.Exit(fmt.Sprintf("failed to write output: %v", err), 1)
	}
	return nil
}

func drainProgress(updates <-chan progress.Update, bar *progressbar.ProgressBar) {
	for range updates {
		_ = bar.Add(1)
	}
	_ = bar.Finish()
}

func printLocalSummary(out model.ProblemOutput) {
	fmt.Println(headerStyle.Render("Assignment result"))
	fmt.Println(statusStyle.Render(out.Status))

	byGroup := make(map[int][]int)
	for _, a := range out.Assignments {
		byGroup[a.GroupID] = append(byGroup[a.GroupID], a.StudentID)
	}

	groupIDs := make([]int, 0, len(byGroup))
	for gid := range byGroup {
		groupIDs = append(groupIDs, gid)
	}
	sort.Ints(groupIDs)

	for _, gid := range groupIDs {
		students := byGroup[gid]
		sort.Ints(students)
		fmt.Printf("%d: %v\n", gid, students)
	}

	if out.Stats != nil {
		fmt.Println(headerStyle.Render("Stats"))
		statsJSON, err := json.MarshalIndent(out.Stats, "", "  ")
		if err != nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("failed to format stats: %v", err)))
			return
		}
		fmt.Println(string(statsJSON))
	}
}
