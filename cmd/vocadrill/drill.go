package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/darkclainer/vocadrill/pkg/drill"
	"github.com/darkclainer/vocadrill/pkg/library"
	"github.com/darkclainer/vocadrill/pkg/parser"
)

func newDrillCommand() *cobra.Command {
	var reset bool

	command := &cobra.Command{
		Use:   "drill FILE",
		Short: "Drill the words of a vocabulary document in the terminal",
		Long: "Drill shows the meaning and blanked sentences of every unsolved entry and asks for the word.\n" +
			"Progress is kept in the configured storage, type quit to stop.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("can not read %s: %w", args[0], err)
			}
			ctx := cmd.Context()

			storage, err := library.OpenStorage(conf.Storage.Path, conf.Storage.InMemory)
			if err != nil {
				return err
			}
			lib := library.NewCached(library.NewParsing(nil, conf.ParsingConfig()), storage.DB, logger)
			defer func() {
				if closeErr := lib.Close(ctx); closeErr != nil {
					logger.Error("Library close failed", zap.Error(closeErr))
				}
			}()

			doc, err := lib.Load(ctx, filepath.Base(args[0]), content)
			if err != nil {
				return err
			}
			if reset {
				if doc, err = lib.Reset(ctx, doc.ID); err != nil {
					return err
				}
			}

			terminal := drill.NewTerminal(cmd.InOrStdin(), cmd.OutOrStdout())
			terminal.OnAnswer = func(index int, entry *parser.Entry, correct bool) error {
				if !correct {
					return nil
				}
				_, err := lib.SetSolved(ctx, doc.ID, index, true)
				return err
			}
			summary, err := terminal.Run(ctx, doc.Entries)
			if err != nil {
				return err
			}
			logger.Debug("Drill finished",
				zap.String("id", doc.ID),
				zap.Int("total", summary.Total),
				zap.Int("correct", summary.Correct),
			)
			return nil
		},
	}
	command.Flags().BoolVar(&reset, "reset", false, "forget solved entries before the drill")
	return command
}
