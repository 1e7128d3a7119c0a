package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"checkgate/internal/failure"
)

func main() {
	os.Exit(execute(newRootCommand(), os.Stderr))
}

// execute runs cmd and returns the process exit status, reporting errors that
// did not already explain themselves on stderr.
func execute(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	if !failure.Silent(err) && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, err)
	}
	return failure.ExitStatus(err)
}
