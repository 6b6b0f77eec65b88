package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK         = 0
	exitDuplicates = 1
	exitError      = 2
	exitInterrupt  = 130
)

// exitStatus carries a non-zero exit code out of a command without printing anything
type exitStatus struct {
	code int
}

func (e *exitStatus) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// newRootCmd builds the command tree around a fresh set of options
func newRootCmd() *cobra.Command {
	o := newOptions()

	rootCmd := &cobra.Command{
		Use:   "dff [dirs...]",
		Short: "Find duplicate files",
		Long: `Find duplicate files in one or more directories.

Files are compared in stages: first by size, then by a hash of sampled chunks
from the start, middle and end of each file, and finally by a hash of the
whole file. Each stage only examines files the previous one could not rule out.

With no directories the current directory is scanned.

Example:
  dff ~/Pictures /mnt/backup/Pictures
  dff -e '**/.*' -e '*.tmp' -o list .
  dff -c size -o fdupes /srv/media
  dff -f . && echo "no duplicates"`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFind(cmd, o, args)
		},
	}

	o.bindFlags(rootCmd)
	rootCmd.AddCommand(newConfigCmd(o))
	return rootCmd
}

func main() {
	os.Exit(execute(newRootCmd()))
}

// execute runs the command tree and maps the outcome to an exit code
func execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	var status *exitStatus
	if errors.As(err, &status) {
		return status.code
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "dff: %v\n", err)
	return exitError
}
