package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/APTrust/dart-profiles/models/common"
	"github.com/APTrust/dart-profiles/profiles"
	"github.com/APTrust/dart-profiles/server"
	"github.com/APTrust/dart-profiles/util/cli"
)

func main() {
	help := false
	addr := ""
	flag.BoolVar(&help, "help", false, "Print help message")
	flag.StringVar(&addr, "addr", "", "Address to listen on. Overrides HTTP_ADDR.")
	flag.Parse()

	if help {
		printHelp()
		os.Exit(0)
	}

	appContext := common.NewContext()
	if addr == "" {
		addr = appContext.Config.HttpAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := profiles.Install(ctx, appContext); err != nil {
		appContext.Logger.Errorf("Cannot install built-in profiles: %v", err)
		os.Exit(1)
	}

	router := server.NewRouter(server.NewHandler(appContext))
	appContext.Logger.Infof("Profile server listening on %s", addr)
	err := server.ListenAndServe(ctx, addr, router)
	if err != nil && err != http.ErrServerClosed {
		appContext.Logger.Errorf("Server stopped: %v", err)
		os.Exit(1)
	}
	appContext.Logger.Info("Profile server stopped")
}

func printHelp() {
	message := `
profile_server installs the built-in BagIt profiles, then serves the
BagIt profile API: list, read, save, delete,
validate, render tag files, export to the bagit-profiles format,
suggest bag names, and import profiles directly or through the
import queue.
`
	fmt.Println(message)
	fmt.Println(cli.EnvMessage)
}
