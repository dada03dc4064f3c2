package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/darkclainer/vocadrill/pkg/config"
	"github.com/darkclainer/vocadrill/pkg/library"
	"github.com/darkclainer/vocadrill/pkg/parser"
)

// Output formats of the parse command.
const (
	formatJSONL = "jsonl"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

type parseFlags struct {
	format    string
	maxTokens int
	strict    bool
}

func newParseCommand() *cobra.Command {
	var flags parseFlags

	command := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a vocabulary document and print its entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyParseFlags(cmd, conf, &flags); err != nil {
				return err
			}
			doc, err := parseFile(cmd.Context(), conf, args[0])
			if err != nil {
				return err
			}
			logger.Debug("Document parsed",
				zap.String("id", doc.ID),
				zap.Int("entries", len(doc.Entries)),
			)
			return writeEntries(cmd.OutOrStdout(), flags.format, doc.Entries)
		},
	}
	command.Flags().StringVarP(&flags.format, "format", "f", formatJSONL, "output format: jsonl, json or yaml")
	command.Flags().IntVar(&flags.maxTokens, "max-tokens", 0, "maximum number of tokens in a headword")
	command.Flags().BoolVar(&flags.strict, "strict", false, "drop short unnumbered sentences")
	return command
}

// applyParseFlags overrides configured parser options with flags set on cmd.
func applyParseFlags(cmd *cobra.Command, conf *config.Config, flags *parseFlags) error {
	if cmd.Flags().Changed("max-tokens") {
		if flags.maxTokens < 1 {
			return fmt.Errorf("--max-tokens must be positive, got %d", flags.maxTokens)
		}
		conf.Parser.MaxHeadwordTokens = flags.maxTokens
	}
	if cmd.Flags().Changed("strict") {
		conf.Parser.Strict = flags.strict
	}
	switch flags.format {
	case formatJSONL, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown format %q", flags.format)
}

func parseFile(ctx context.Context, conf *config.Config, path string) (*library.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can not read %s: %w", path, err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	parsing := library.NewParsing(nil, conf.ParsingConfig())
	defer parsing.Close(ctx) // nolint:errcheck
	return parsing.Load(ctx, filepath.Base(path), content)
}

func writeEntries(w io.Writer, format string, entries []*parser.Entry) error {
	switch format {
	case formatJSONL:
		encoder := json.NewEncoder(w)
		encoder.SetEscapeHTML(false)
		for _, e := range entries {
			if err := encoder.Encode(e); err != nil {
				return fmt.Errorf("can not encode entry %q: %w", e.Word, err)
			}
		}
		return nil
	case formatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetEscapeHTML(false)
		encoder.SetIndent("", "\t")
		return encoder.Encode(entries)
	case formatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(entries); err != nil {
			return fmt.Errorf("can not encode entries: %w", err)
		}
		return encoder.Close()
	}
	return fmt.Errorf("unknown format %q", format)
}
