package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	domaincmd "github.com/louisbranch/dislocation.network/internal/cmd/domain"
	"github.com/louisbranch/dislocation.network/internal/platform/config"
)

func main() {
	cfg, err := domaincmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[DOMAIN] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := domaincmd.Run(ctx, cfg); err != nil {
		config.Exitf("run domain: %v", err)
	}
}
