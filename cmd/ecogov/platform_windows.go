package main

import (
	"time"

	"ecogov/config"
	"ecogov/governor"
	"ecogov/process"
	"ecogov/process_windows"
)

const singletonName = "Local\\ecogov-single-instance"

func newPlatform(cfg *config.Config) (process.Platform, error) {
	return process_windows.NewPlatform(process_windows.Options{
		CreationPoll: time.Duration(cfg.ListenNewProcess.PollInterval),
	}), nil
}

// prepare runs the startup checks of the governor
func prepare(cfg *config.Config, log governor.Logger) (func(), error) {
	release, err := process_windows.AcquireSingleton(singletonName)
	if err != nil {
		return nil, err
	}

	build := process_windows.OSBuild()
	ok, err := process_windows.CheckBuild(build)
	if err != nil {
		release()
		return nil, err
	}
	if !ok {
		log.Warn("EcoQoS needs Windows 11 22H2 to be fully effective, running on build ", build)
	}

	if cfg.SystemProcess {
		log.Infoln("enabling debug privilege...")
		if err := process_windows.EnableDebugPrivilege(); err != nil {
			log.Warn("failed to enable debug privilege: ", err)
		}
	}

	return release, nil
}
