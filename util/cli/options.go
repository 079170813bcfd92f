package cli

import (
	"flag"
	"time"
)

// Options are the command-line settings shared by the long-running
// profile services.
type Options struct {
	ChannelBufferSize int
	MaxAttempts       int
	PrintHelp         bool
	RequeueTimeout    time.Duration
}

var defaultAttempts = 5
var defaultBufSize = 4
var defaultTimeout = 1 * time.Minute

var EnvMessage = `This requires the following environment vars:

DART_CONFIG_DIR - Path to the directory containing the .env settings file.

DART_CONFIG - Name of the configuration to load. For example:
    test - Loads .env.test from DART_CONFIG_DIR
    dev  - Loads .env.dev from DART_CONFIG_DIR

Any setting in the .env file can be overridden by an environment
variable of the same name, such as REDIS_URL.
`

// ParseOpts parses args, which should not include the program name.
func ParseOpts(name string, args []string) (Options, error) {
	opts := Options{}
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.IntVar(&opts.ChannelBufferSize, "bufsize", defaultBufSize, "Number of NSQ messages to handle at once")
	flags.IntVar(&opts.MaxAttempts, "max-attempts", defaultAttempts, "Maximum number of times to attempt an import that fails with non-fatal errors")
	flags.BoolVar(&opts.PrintHelp, "help", false, "Print help message")
	flags.DurationVar(&opts.RequeueTimeout, "requeue-timeout", defaultTimeout, "Requeue timeout for imports that failed with non-fatal errors. Format examples: 500ms, 12s, 10m, 3m30s, 3h")
	err := flags.Parse(args)
	return opts, err
}
