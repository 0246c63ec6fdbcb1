package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"godispatch/internal"
	"godispatch/internal/config"
	"godispatch/internal/generation"
	"godispatch/internal/inspect"
)

func main() {
	var configPath = flag.String("config", "", "The path to dispatch.yaml. Default: searched for from -dir upwards.")
	var dir = flag.String("dir", ".", "The directory of the package to generate bindings for.")
	var output = flag.String("output", "", "The name of the generated file. Overrides the config.")
	var logLevel = flag.String("log-level", "info", "One of debug, info, warn or error.")
	var force = flag.Bool("force", false, "Overwrite the output file even if it was not written by dispatchgen.")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Generates RegisterDispatch for the types listed in dispatch.yaml.")
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := newLogger(os.Stderr, *logLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, *configPath, *dir, *output, *force); err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, dir, output string, force bool) error {
	if configPath == "" {
		configPath = internal.Must(config.Find(dir))
		if configPath == "" {
			return fmt.Errorf("no dispatch.yaml found in %s or its parents", dir)
		}
	}
	logger.Debug("loading config", "path", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if output != "" {
		cfg.Output = output
	}

	pkg, err := inspect.Inspect(ctx, dir, cfg)
	if err != nil {
		return err
	}
	for _, t := range pkg.Types {
		logger.Debug("inspected type",
			"type", t.GoName,
			"constructors", len(t.Constructors),
			"methods", len(t.Methods))
	}

	outputPath := filepath.Join(dir, cfg.Output)
	if err := ConfirmOverwrite(outputPath, force, os.Stdin); err != nil {
		return err
	}

	generator := generation.NewGenerator(pkg)
	if err := generator.Generate(outputPath); err != nil {
		return err
	}
	logger.Info("generated dispatch bindings", "package", pkg.Path, "output", outputPath, "types", len(pkg.Types))
	return nil
}

func newLogger(w *os.File, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()) {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ConfirmOverwrite returns nil when path may be written: it does not exist,
// it was written by dispatchgen, force is set, or the user agrees on in.
func ConfirmOverwrite(path string, force bool, in io.Reader) error {
	existing, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if force || generation.IsGenerated(existing) {
		return nil
	}

	if f, ok := in.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return fmt.Errorf("%s was not generated by dispatchgen, use -force to overwrite it", path)
	}

	var response string
	fmt.Printf("%s was not generated by dispatchgen. Overwrite? [Y/n]", path)
	fmt.Fscan(in, &response)
	if strings.ToUpper(response) != "Y" {
		return errors.New("explicit agreement was not given")
	}
	return nil
}
