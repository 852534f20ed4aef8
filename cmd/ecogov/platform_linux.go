package main

import (
	"time"

	"ecogov/config"
	"ecogov/governor"
	"ecogov/process"
	"ecogov/process_linux"
)

func newPlatform(cfg *config.Config) (process.Platform, error) {
	return process_linux.NewPlatform(process_linux.Options{
		ForegroundPoll: time.Duration(cfg.ListenForegroundEvents.PollInterval),
		CreationPoll:   time.Duration(cfg.ListenNewProcess.PollInterval),
	}), nil
}

func prepare(cfg *config.Config, log governor.Logger) (func(), error) {
	return func() {}, nil
}
