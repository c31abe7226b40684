package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pelletier/go-toml"
	"github.com/windward-gs/windward/server"
)

func main() {
	log := slog.Default()

	conf, err := readConfig(log)
	if err != nil {
		log.Error("failed reading config", "err", err)
		os.Exit(1)
	}

	srv := server.New(conf)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		if err := srv.Close(); err != nil {
			log.Error("error closing server", "err", err)
		}
		os.Exit(0)
	}()

	if err := srv.Listen(); err != nil {
		log.Error("listener failed", "err", err)
		os.Exit(1)
	}
}

// readConfig reads the configuration from windward.toml, or creates the file
// with default values if it does not yet exist.
func readConfig(log *slog.Logger) (server.Config, error) {
	uc := server.DefaultConfig()
	if _, err := os.Stat("windward.toml"); errors.Is(err, os.ErrNotExist) {
		data, err := toml.Marshal(uc)
		if err != nil {
			return server.Config{}, fmt.Errorf("encode default config: %w", err)
		}
		if err := os.WriteFile("windward.toml", data, 0644); err != nil {
			return server.Config{}, fmt.Errorf("create default config: %w", err)
		}
		return uc.Config(log)
	}
	data, err := os.ReadFile("windward.toml")
	if err != nil {
		return server.Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &uc); err != nil {
		return server.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return uc.Config(log)
}
