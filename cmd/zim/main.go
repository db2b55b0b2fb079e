// Command zim is the terminal audio player: a single-file or
// up-to-three-file mixer driven by a Bubble Tea TUI, per spec.md §1.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "zim",
		Short:         "A terminal audio player for WAV/FLAC/AIFF, with marks, looping, and selection export",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(playerCmd())
	root.AddCommand(playCmd())
	return root
}

func playerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player [file]",
		Short: "Open a single audio file, or browse the current directory if none is given",
		Args:  wrapArgsError(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return runPlayer(context.Background(), file)
		},
	}
	return cmd
}

func playCmd() *cobra.Command {
	var gains, pans string
	cmd := &cobra.Command{
		Use:   "play FILE1 [FILE2 [FILE3]]",
		Short: "Mix up to three audio files and play them together",
		Args:  wrapArgsError(cobra.RangeArgs(1, 3)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(context.Background(), args, gains, pans)
		},
	}
	cmd.Flags().StringVar(&gains, "gains", "", "comma-separated per-track gain (0..2, default 1)")
	cmd.Flags().StringVar(&pans, "pans", "", "comma-separated per-track pan (-1..1, default 0)")
	return cmd
}

// exitSentinel distinguishes bad-argument failures (exit 2) from
// fatal load/device errors (exit 1), per spec.md §3's exit code table.
type exitSentinel struct {
	code int
	err  error
}

func (e *exitSentinel) Error() string { return e.err.Error() }
func (e *exitSentinel) Unwrap() error { return e.err }

func badArgs(err error) error { return &exitSentinel{code: 2, err: err} }
func fatal(err error) error   { return &exitSentinel{code: 1, err: err} }

// wrapArgsError lifts a cobra Args validator's plain error into the
// bad-arguments exit sentinel, so an arg-count failure exits 2 rather
// than main's generic 1.
func wrapArgsError(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return badArgs(err)
		}
		return nil
	}
}

func exitCodeFor(err error) int {
	var sentinel *exitSentinel
	if errors.As(err, &sentinel) {
		return sentinel.code
	}
	return 1
}
