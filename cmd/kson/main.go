// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

// Program kson is a command-line front end for the KSON parser. It
// reads a KSON document and reports its tokens, its diagnostics, or
// its value converted to JSON or canonical KSON.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/creachadair/kson"
	"github.com/creachadair/kson/ast"
	"github.com/creachadair/kson/value"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "kson:", err.Error())
		os.Exit(1)
	}
}

type settings struct {
	maxDepth int
	verbose  bool
	log      zerolog.Logger
}

func run() error {
	st := &settings{}

	root := &cobra.Command{
		Use:           "kson",
		Short:         "Inspect and convert KSON documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if st.verbose {
				level = zerolog.DebugLevel
			}
			st.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				Level(level).With().Timestamp().Logger()
		},
	}
	root.PersistentFlags().IntVar(&st.maxDepth, "max-depth", 0,
		"maximum nesting depth (0 uses the default)")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false,
		"enable debug logging")

	root.AddCommand(newCheckCommand(st), newTokensCommand(st),
		newJSONCommand(st), newFormatCommand(st))
	return root.Execute()
}

// readInput returns the content of the file named in args, or of stdin
// if args is empty or names "-".
func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", errors.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", errors.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func (st *settings) parse(args []string) (*value.Result, error) {
	src, err := readInput(args)
	if err != nil {
		return nil, err
	}
	st.log.Debug().Int("bytes", len(src)).Msg("parsing input")
	return value.ParseOptions(src, &ast.Options{MaxDepth: st.maxDepth}), nil
}

// reportMessages logs each diagnostic and reports whether any was
// fatal.
func (st *settings) reportMessages(msgs []kson.Message) bool {
	for _, m := range msgs {
		ev := st.log.Warn()
		if m.Severity() == kson.Error {
			ev = st.log.Error()
		}
		ev.Str("pos", m.Location.String()).
			Str("code", m.Type.String()).
			Msg(m.Render())
	}
	return kson.HasFatal(msgs)
}

func newCheckCommand(st *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "parse a document and report its diagnostics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.parse(args)
			if err != nil {
				return err
			}
			if st.reportMessages(res.Messages) {
				return errors.New("input is not valid KSON")
			}
			return nil
		},
	}
}

func newTokensCommand(st *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file]",
		Short: "print the token sequence of a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(args)
			if err != nil {
				return err
			}
			toks, msgs := kson.Lex(src)
			for _, tok := range toks {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-22s %s\n",
					tok.Location, tok.Type, strconv.Quote(tok.Text))
			}
			st.reportMessages(msgs)
			return nil
		},
	}
}

func newJSONCommand(st *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "json [file]",
		Short: "convert a document to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.parse(args)
			if err != nil {
				return err
			}
			if st.reportMessages(res.Messages) {
				return errors.New("input is not valid KSON")
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Value.JSON())
			return nil
		},
	}
}

func newFormatCommand(st *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt [file]",
		Short: "rewrite a document in canonical form",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := st.parse(args)
			if err != nil {
				return err
			}
			if st.reportMessages(res.Messages) {
				return errors.New("input is not valid KSON")
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Value.KSON())
			return nil
		},
	}
}
