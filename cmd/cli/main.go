package main

import (
	"fmt"
	"io"
	"os"

	"github.com/akeren/jobtracker-api/config"
	"github.com/akeren/jobtracker-api/internal/log"
)

func main() {
	logger := log.NewLoggerWithJSONOutput()

	config.InitializeEnvFile(logger)

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "migrate":
		err = runMigrate(logger, args[1:])
	case "check-email":
		err = runCheckEmail(logger, os.Stdout, args[1:])
	case "spam-stats":
		err = runSpamStats(logger, os.Stdout, args[1:])
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		logger.Error("Command failed", "command", args[0], "error", err.Error())
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: cli <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  migrate [up|down N|version]  Manage the database schema (default: up)")
	fmt.Fprintln(w, "  check-email <email>          Classify an address with the loaded spam policy")
	fmt.Fprintln(w, "  spam-stats [hours]           Print blocked signup statistics as JSON (default: 24)")
}
