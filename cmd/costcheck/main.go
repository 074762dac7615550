package main

import (
	"io"
	"os"

	"costcheck/log"
)

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}

// runMain owns the logger for the process lifetime, so it is flushed before
// main exits.
func runMain(args []string, stdout, stderr io.Writer) int {
	log.InitLogger()
	defer func() { _ = log.GetLogger().Sync() }()

	return execute(args, stdout, stderr)
}

// execute runs the CLI and maps the outcome to a process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return exitSuccess
	}
	if msg := err.Error(); msg != "" {
		_, _ = io.WriteString(stderr, "Error: "+msg+"\n")
	}
	return exitCodeOf(err)
}
