package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/APTrust/dart-profiles/models/common"
	"github.com/APTrust/dart-profiles/profiles"
	"github.com/APTrust/dart-profiles/util"
	"github.com/APTrust/dart-profiles/util/cli"
	"github.com/APTrust/dart-profiles/workers"
)

func main() {
	opts, err := cli.ParseOpts("profile_importer", os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if opts.PrintHelp {
		printHelp()
		os.Exit(0)
	}

	// This panics if the config is missing or bad.
	appContext := common.NewContext()

	pidFile := util.NewPidFile(filepath.Join(appContext.Config.LogDir, "profile_importer.pid"))
	if err := pidFile.Claim(); err != nil {
		appContext.Logger.Error(err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer pidFile.Release()

	// Imports must never shadow a built-in, so make sure they're there.
	if err := profiles.Install(context.Background(), appContext); err != nil {
		appContext.Logger.Errorf("Cannot install built-in profiles: %v", err)
		pidFile.Release()
		os.Exit(1)
	}

	importer := workers.NewProfileImporter(appContext)
	importer.Settings.ChannelBufferSize = opts.ChannelBufferSize
	importer.Settings.MaxAttempts = opts.MaxAttempts
	importer.Settings.RequeueTimeout = opts.RequeueTimeout
	appContext.Logger.Infof("Settings: %s", importer.Settings.ToJSON())

	if err := importer.RegisterAsNsqConsumer(); err != nil {
		appContext.Logger.Errorf("Cannot register as NSQ consumer: %v", err)
		pidFile.Release()
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	appContext.Logger.Infof("Received %s. Stopping NSQ consumer.", sig)
	importer.NSQConsumer.Stop()
	<-importer.NSQConsumer.StopChan
}

func printHelp() {
	message := `
profile_importer reads import requests from NSQ, converts the BagIt
profiles they point to into DART profiles, and saves the results to
Redis and to the profile bucket in S3.

Requests are JSON objects with either a url or a bucket and key:

    {"url": "https://example.org/profile.json", "profileId": "optional-id"}
    {"bucket": "profile-imports", "key": "loc/sanc.json"}

Documents may be DART profiles, bagit-profiles profiles, or ordered
or unordered Library of Congress profiles, in JSON or YAML.
`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
