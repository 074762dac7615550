package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"costcheck/internal/appdirs"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newVersionCommand() *cobra.Command {
	var diagnose bool

	cmd := &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipConfigAnnotation: ""},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			printVersion(out)
			if diagnose {
				fmt.Fprintln(out)
				printDiagnose(out)
			}
		},
	}

	cmd.Flags().BoolVar(&diagnose, "diagnose", false, "also print runtime diagnostics")

	return cmd
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "version: %s\ncommit: %s\ndate: %s\n", version, commit, date)
}

func printDiagnose(w io.Writer) {
	fmt.Fprintf(w, "runtime: %s/%s\n", runtime.GOOS, runtime.GOARCH)

	if wd, err := os.Getwd(); err == nil {
		fmt.Fprintf(w, "working_dir: %s\n", wd)
	} else {
		fmt.Fprintf(w, "working_dir: <error: %v>\n", err)
	}

	dirs, err := appdirs.Resolve()
	if err != nil {
		fmt.Fprintf(w, "paths: <error: %v>\n", err)
		return
	}
	fmt.Fprintf(w, "portable: %t\n", dirs.Portable)
	printPath(w, "config", dirs.ConfigFile)
	printPath(w, "log_dir", dirs.LogDir)
	printPath(w, "history_db", appdirs.DBPathFor(dirs))
}

func printPath(w io.Writer, name, value string) {
	_, err := os.Stat(value)
	switch {
	case err == nil:
		fmt.Fprintf(w, "path.%s: %s (exists)\n", name, value)
	case os.IsNotExist(err):
		fmt.Fprintf(w, "path.%s: %s (missing)\n", name, value)
	default:
		fmt.Fprintf(w, "path.%s: %s (error=%v)\n", name, value, err)
	}
}
