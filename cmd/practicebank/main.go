package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/dsc-courses/practicebank/internal/bank"
	"github.com/dsc-courses/practicebank/internal/bankops"
	"github.com/dsc-courses/practicebank/internal/config"
	"github.com/dsc-courses/practicebank/internal/gitsource"
	"github.com/dsc-courses/practicebank/internal/logfields"
	"github.com/dsc-courses/practicebank/internal/metrics"
	"github.com/dsc-courses/practicebank/internal/preview"
	"github.com/dsc-courses/practicebank/internal/site"
	"github.com/dsc-courses/practicebank/internal/workspace"
)

var CLI struct {
	Verbose bool `short:"v" help:"Enable verbose logging"`

	Build struct {
		Bank     string `arg:"" optional:"" default:"." help:"Bank directory or git clone URL"`
		Output   string `short:"o" help:"Output directory for the generated site" default:"./site"`
		Branch   string `help:"Branch to check out when the bank is a git URL"`
		Template string `short:"t" help:"Page template path, overriding the configured one"`
	} `cmd:"" help:"Build the practice bank website"`

	Preview struct {
		Bank   string `arg:"" optional:"" default:"." help:"Bank directory"`
		Output string `short:"o" help:"Output directory; a temporary directory when empty"`
		Port   int    `short:"p" help:"Port to serve on" default:"8000"`
	} `cmd:"" help:"Serve the site locally and rebuild on changes"`

	Init struct {
		Bank  string `arg:"" optional:"" default:"." help:"Bank directory"`
		Force bool   `help:"Overwrite existing configuration"`
	} `cmd:"" help:"Initialize a new bank configuration"`

	Tags struct {
		Bank    string `arg:"" optional:"" default:"." help:"Bank directory"`
		Tagless bool   `help:"List problems without tags instead"`
	} `cmd:"" help:"List the tags used in the bank"`

	Insert struct {
		Problem string `arg:"" help:"Directory of the problem to insert"`
		Bank    string `help:"Bank directory" default:"."`
	} `cmd:"" help:"Copy a problem into the bank under the next identifier"`

	Renumber struct {
		Bank string `arg:"" optional:"" default:"." help:"Bank directory"`
	} `cmd:"" help:"Make problem identifiers contiguous"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger.With(logfields.RunID(uuid.NewString())))

	var err error
	switch ctx.Command() {
	case "build", "build <bank>":
		err = runBuild(CLI.Build.Bank, CLI.Build.Output, CLI.Build.Branch, CLI.Build.Template)
	case "preview", "preview <bank>":
		err = runPreview(CLI.Preview.Bank, CLI.Preview.Output, CLI.Preview.Port)
	case "init", "init <bank>":
		err = config.Init(CLI.Init.Bank, CLI.Init.Force)
	case "tags", "tags <bank>":
		err = runTags(CLI.Tags.Bank, CLI.Tags.Tagless)
	case "insert <problem>":
		err = runInsert(CLI.Insert.Bank, CLI.Insert.Problem)
	case "renumber", "renumber <bank>":
		_, err = bankops.Renumber(CLI.Renumber.Bank)
	default:
		err = fmt.Errorf("unknown command: %s", ctx.Command())
	}
	if err != nil {
		slog.Error("Command failed", logfields.Error(err))
		os.Exit(1)
	}
}

func runBuild(bankLocation, outputDir, branch, templateOverride string) error {
	bankRoot, cleanup, err := resolveBank(bankLocation, branch)
	if err != nil {
		return err
	}
	defer cleanup()

	return buildSite(bankRoot, outputDir, templateOverride, metrics.NoopRecorder{})
}

// buildSite loads the bank at bankRoot and generates the site into
// outputDir.
func buildSite(bankRoot, outputDir, templateOverride string, rec metrics.Recorder) error {
	start := time.Now()

	b, err := bank.Load(bankRoot)
	if err != nil {
		rec.IncBuildOutcome("failed")
		return err
	}
	rec.AddProblemsLoaded(len(b.Problems))

	tpl, err := loadTemplate(b, templateOverride)
	if err != nil {
		rec.IncBuildOutcome("failed")
		return err
	}

	if err := site.NewGenerator(tpl, rec).Generate(b, outputDir); err != nil {
		rec.IncBuildOutcome("failed")
		return err
	}

	rec.IncBuildOutcome("success")
	rec.ObserveBuildDuration(time.Since(start))
	slog.Info("Build finished",
		logfields.Bank(bankRoot),
		logfields.Path(outputDir),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return nil
}

func loadTemplate(b *bank.Bank, override string) (*site.Template, error) {
	path := override
	if path == "" && b.Config.Template != "" {
		path = filepath.Join(b.Root, b.Config.Template)
	}
	if path == "" {
		return site.ParseTemplate(site.DefaultTemplate)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	return site.ParseTemplate(string(content))
}

// resolveBank turns the bank argument into a local directory, cloning it
// into a workspace first when it is a git URL.
func resolveBank(location, branch string) (string, func(), error) {
	if !gitsource.IsRemote(location) {
		return location, func() {}, nil
	}

	ws := workspace.NewManager("")
	if err := ws.Create(); err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if err := ws.Cleanup(); err != nil {
			slog.Warn("Failed to cleanup workspace", logfields.Error(err))
		}
	}

	bankRoot, err := gitsource.Clone(location, branch, ws.GetPath())
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return bankRoot, cleanup, nil
}

func runPreview(bankRoot, outputDir string, port int) error {
	if outputDir == "" {
		tmp, err := os.MkdirTemp("", "practicebank-site-")
		if err != nil {
			return err
		}
		defer func() { _ = os.RemoveAll(tmp) }()
		outputDir = tmp
	}

	registry := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(registry)
	rebuild := func() error {
		return buildSite(bankRoot, outputDir, "", rec)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return preview.New(bankRoot, outputDir, port, rebuild, registry).Run(ctx)
}

func runTags(bankRoot string, tagless bool) error {
	var items []string
	var err error
	if tagless {
		items, err = bankops.Tagless(bankRoot)
	} else {
		items, err = bankops.Tags(bankRoot)
	}
	if err != nil {
		return err
	}
	for _, item := range items {
		fmt.Println(item)
	}
	return nil
}

func runInsert(bankRoot, problemDir string) error {
	identifier, err := bankops.Insert(bankRoot, problemDir)
	if err != nil {
		return err
	}
	fmt.Println(identifier)
	return nil
}
