// Package cli implements the seatplan command-line interface for running the seat
// assignment engine against scenario files.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	formatText = "text"
	formatJSON = "json"
)

// CLI holds shared state for all commands.
type CLI struct {
	out    io.Writer
	logger *zap.Logger
}

// New creates a CLI writing command output to out.
func New(out io.Writer, logger *zap.Logger) *CLI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CLI{out: out, logger: logger}
}

// SetLogger replaces the logger used for diagnostics.
func (c *CLI) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "seatplan",
		Short:         "Seatplan assigns guests to table seats",
		Long:          `Seatplan runs the seat assignment engine offline against TOML scenario files: placement under seat modes and table rules, then sit-together and sit-away repair.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(c.out)

	root.AddCommand(c.solveCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.swapsCommand())
	return root
}

func validateFormat(format string) error {
	switch format {
	case formatText, formatJSON:
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}
