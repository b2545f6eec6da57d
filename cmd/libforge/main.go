package main

import (
	"errors"
	"os"

	"github.com/libforge/libforge/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	err := cmd.Execute()
	if err == nil {
		return
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		// Commands with an underlying error have already printed it.
		if exitErr.Err == nil && exitErr.Message != "" {
			cmd.PrintErrln("Error:", exitErr.Message)
		}
		os.Exit(exitErr.Code)
	}

	// Flag and usage errors from cobra.
	cmd.PrintErrln("Error:", err)
	os.Exit(cli.ExitCommandError)
}
