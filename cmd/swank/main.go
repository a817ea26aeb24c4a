package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/loamlang/swank/pkg/config"
	"github.com/loamlang/swank/pkg/logger"
	"github.com/loamlang/swank/pkg/swank"
)

func main() {
	port := flag.Int("port", -1, "TCP port to listen on (-1 = config default, 0 = ephemeral)")
	portFile := flag.String("port-file", "", "write the bound port number to this file")
	cfgPath := flag.String("config", "", "path to a JSON config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			slog.Error("config error", "error", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *port >= 0 {
		cfg.Port = *port
	}
	if *portFile != "" {
		cfg.PortFile = *portFile
	}

	level := logger.ParseLevel(cfg.Log.Level)
	if *debug {
		level = logger.DEBUG
	}
	log, err := logger.New(&logger.Config{
		Level:    level,
		Prefix:   cfg.Log.Prefix,
		FilePath: cfg.Log.File,
	})
	if err != nil {
		slog.Error("logger error", "error", err)
		os.Exit(1)
	}
	defer log.Close()

	if err := swank.NewServer(cfg, log).ListenAndServe(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
