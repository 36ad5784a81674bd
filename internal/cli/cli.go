package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/vk/cachebust/internal/app"
)

// excludeList accumulates -exclude values. The flag may be repeated, and
// each occurrence may carry several comma-separated patterns.
type excludeList []string

func (e *excludeList) String() string {
	return strings.Join(*e, ",")
}

func (e *excludeList) Set(value string) error {
	for _, pat := range strings.Split(value, ",") {
		if pat = strings.TrimSpace(pat); pat != "" {
			*e = append(*e, pat)
		}
	}
	return nil
}

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("cachebust", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
cachebust - rewrite module imports with content-hash version queries.

Usage:
  cachebust [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to an .hcl configuration file. Optional when -src is given.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the configuration file.")
	cFlag := flagSet.String("c", "", "Path to the configuration file (shorthand).")
	srcFlag := flagSet.String("src", "", "Source root to process. Overrides the config file.")
	outFlag := flagSet.String("out", "", "Output root. Empty rewrites files in place.")
	var exclude excludeList
	flagSet.Var(&exclude, "exclude", "Glob patterns to exclude. May be repeated or comma-separated.")
	cleanFlag := flagSet.Bool("clean", false, "Remove the output root before emitting.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	configPath := ""
	if *configFlag != "" {
		configPath = *configFlag
	} else if *cFlag != "" {
		configPath = *cFlag
	} else if flagSet.NArg() > 0 {
		configPath = flagSet.Arg(0)
	}

	if configPath == "" && *srcFlag == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPath: configPath,
		SourceRoot: *srcFlag,
		OutputRoot: *outFlag,
		Exclude:    exclude,
		Clean:      *cleanFlag,
		LogFormat:  logFormat,
		LogLevel:   logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
