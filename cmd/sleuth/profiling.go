package main

import (
	"github.com/spf13/cobra"

	"sleuth/internal/prof"
)

// setupProfiling starts the runtime profilers requested by the persistent
// flags and returns a cleanup function. Cleanup is always safe to call.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()
	cpuPath, err := flags.GetString("cpuprofile")
	if err != nil {
		return nil, err
	}
	memPath, err := flags.GetString("memprofile")
	if err != nil {
		return nil, err
	}
	tracePath, err := flags.GetString("traceprofile")
	if err != nil {
		return nil, err
	}

	session, err := prof.Start(cpuPath, memPath, tracePath)
	if err != nil {
		return nil, err
	}
	return session.Stop, nil
}
