//go:build !linux && !windows

package main

import (
	"fmt"
	"runtime"

	"ecogov/config"
	"ecogov/governor"
	"ecogov/process"
)

func newPlatform(cfg *config.Config) (process.Platform, error) {
	return process.Platform{}, fmt.Errorf("%w: %s", process.ErrUnsupported, runtime.GOOS)
}

func prepare(cfg *config.Config, log governor.Logger) (func(), error) {
	return func() {}, nil
}
