package main

import (
	"fmt"
	"log"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"flowedit/internal/autosave"
	"flowedit/internal/config"
	"flowedit/internal/diagram"
	"flowedit/internal/editor"
	"flowedit/internal/fileio"
	"flowedit/internal/logging"
	"flowedit/internal/storage"
	"flowedit/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flowedit [file.json]",
		Short: "A terminal flowchart editor",
		Long: `flowedit draws flowcharts of start, process and decision shapes joined
by arrows. Diagrams are saved to a local catalogue and can be exported as
JSON, PNG or SVG.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return run(cfg, file)
		},
	}
	f := cmd.Flags()
	f.String("config", config.DefaultPath(), "config file")
	f.String("data-dir", "", "directory of the diagram catalogue")
	f.Bool("in-memory", false, "keep saved diagrams in memory only")
	f.String("log-file", "", "write logs to this file")
	f.String("log-level", "", "debug, info, warn or error")
	return cmd
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flags.Changed("data-dir") {
		cfg.DataDir, _ = flags.GetString("data-dir")
	}
	if flags.Changed("in-memory") {
		cfg.InMemory, _ = flags.GetBool("in-memory")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-level") {
		level, _ := flags.GetString("log-level")
		cfg.LogLevel = strings.ToLower(level)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config, file string) error {
	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("starting", slog.String("data_dir", cfg.DataDir), slog.Bool("in_memory", cfg.InMemory))

	kv, err := storage.OpenBadger(storage.BadgerConfig{
		Path:     cfg.DataDir,
		InMemory: cfg.InMemory,
		Logger:   logger.With(slog.String("component", "badger")),
	})
	if err != nil {
		return fmt.Errorf("open catalogue: %w", err)
	}
	defer kv.Close()

	importer, err := fileio.NewImporter()
	if err != nil {
		return err
	}

	d := diagram.New()
	ed := editor.New(d,
		editor.WithLogger(logger.With(slog.String("component", "editor"))),
		editor.WithTolerance(diagram.Point{X: cfg.CellWidth / 2, Y: cfg.CellHeight / 2}),
	)
	cat := storage.NewCatalogue(kv, storage.WithLogger(logger.With(slog.String("component", "storage"))))

	m := tui.New(tui.Deps{
		Editor:      ed,
		Catalogue:   cat,
		Importer:    importer,
		Config:      cfg,
		Logger:      logger,
		InitialFile: file,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	sched := autosave.New(cfg.AutosaveInterval, logger)
	if err := sched.Start(func() { p.Send(tui.AutosaveMsg{}) }); err != nil {
		return err
	}
	defer sched.Stop()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	logger.Info("exiting")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
