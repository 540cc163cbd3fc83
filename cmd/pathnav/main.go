package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	apppkg "github.com/kk-code-lab/pathnav/internal/app"
	"github.com/kk-code-lab/pathnav/internal/config"
	"github.com/kk-code-lab/pathnav/internal/shellsetup"
)

var parentShellDetector = shellsetup.DetectParentShellName

func run(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, level, err := apppkg.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := apppkg.NewApplication(apppkg.Options{
		Config:     cfg,
		ConfigPath: configPath,
		Roots:      cmd.StringSlice("root"),
		Document:   cmd.String("document"),
		Logger:     logger,
		LogLevel:   level,
	})
	if err != nil {
		return fmt.Errorf("error initializing application: %w", err)
	}

	runErr := app.Run(ctx)
	_ = app.Close()
	if runErr != nil {
		return runErr
	}

	dir := app.ResultDir()
	if dir == "" {
		return nil
	}
	if cmd.Bool("print-dir") {
		fmt.Println(dir)
		return nil
	}
	// Picked up by the shell function from "pathnav setup".
	if err := os.WriteFile(shellsetup.ResultFile(os.Getpid()), []byte(dir), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not write result file: %v\n", err)
	}
	return nil
}

func setup(_ context.Context, cmd *cli.Command) error {
	return shellsetup.PrintSetup(os.Stdout, cmd.Args().First(), shellsetup.Config{DetectParent: parentShellDetector})
}

func main() {
	// UTF-8 fallback keeps non-ASCII file names readable on bare terminals.
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	cmd := &cli.Command{
		Name:   "pathnav",
		Usage:  "Type-to-navigate path picker for workspace folders",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.DefaultPath(),
				Sources: cli.EnvVars(config.EnvPath),
			},
			&cli.StringSliceFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Add a workspace root (repeatable)",
			},
			&cli.StringFlag{
				Name:    "document",
				Aliases: []string{"d"},
				Usage:   "Start in the directory of this file",
			},
			&cli.BoolFlag{
				Name:  "print-dir",
				Usage: "Print the opened folder to stdout instead of the result file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "setup",
				Usage:     "Output shell integration snippet",
				ArgsUsage: "[SHELL]",
				Action:    setup,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pathnav: %v\n", err)
		os.Exit(1)
	}
}
