package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/APTrust/dart-profiles/bagit"
	"github.com/APTrust/dart-profiles/network"
	"github.com/APTrust/dart-profiles/util/logger"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

// errInvalidProfile makes the command exit non-zero after it has
// already printed the problems.
var errInvalidProfile = errors.New("profile is not valid")

// cliOptions holds the persistent flags shared by all subcommands.
type cliOptions struct {
	timeout time.Duration
	verbose bool
	log     *logging.Logger
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	cmd := &cobra.Command{
		Use:   "dart_profile",
		Short: "Validate, convert, and inspect DART BagIt profiles",
		Long: `dart_profile works with BagIt profiles on the command line.

Profiles may be DART profiles, bagit-profiles profiles, or ordered or
unordered Library of Congress profiles, in JSON or YAML. Commands that
read arbitrary documents also accept http and https URLs.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := logging.WARNING
			if opts.verbose {
				level = logging.DEBUG
			}
			opts.log = logger.InitConsoleLogger(level)
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug messages to stderr")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Timeout for fetching profiles from URLs")

	cmd.AddCommand(
		newValidateCmd(opts),
		newRenderCmd(opts),
		newGuessCmd(opts),
		newImportCmd(opts),
		newExportCmd(opts),
		newNameCmd(opts),
	)
	return cmd
}

// readDocument reads a profile document from a file or URL.
func (o *cliOptions) readDocument(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		o.log.Debugf("Fetching %s", source)
		return network.NewProfileFetcher(o.timeout).Fetch(ctx, source)
	}
	o.log.Debugf("Reading %s", source)
	return os.ReadFile(source)
}

// loadDocument reads and parses a document of unknown format.
func (o *cliOptions) loadDocument(ctx context.Context, source string) (bagit.Document, error) {
	data, err := o.readDocument(ctx, source)
	if err != nil {
		return nil, err
	}
	doc, err := bagit.ParseProfileDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s is neither JSON nor YAML: %w", source, err)
	}
	return doc, nil
}

// loadProfile reads a native DART profile.
func (o *cliOptions) loadProfile(filename string) (*bagit.BagItProfile, error) {
	o.log.Debugf("Loading profile %s", filename)
	profile, err := bagit.BagItProfileLoad(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot load profile %s: %w", filename, err)
	}
	return profile, nil
}
