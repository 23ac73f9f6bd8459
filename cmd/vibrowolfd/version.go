package main

import (
	"fmt"
	"runtime/debug"
	"strconv"
)

// VibroWolfVersion is set at build time via
// `-ldflags "-X 'main.VibroWolfVersion=X'"`, the same injection point
// as the teacher's SAMOYED_VERSION.
var VibroWolfVersion string

func getBuildSettingOrDefault(bi *debug.BuildInfo, key, defaultValue string) string {
	for _, bs := range bi.Settings {
		if bs.Key == key {
			return bs.Value
		}
	}
	return defaultValue
}

func printVersion() {
	buildInfo, _ := debug.ReadBuildInfo()

	buildTimeStr := getBuildSettingOrDefault(buildInfo, "vcs.time", "UNKNOWN")
	buildCommit := getBuildSettingOrDefault(buildInfo, "vcs.revision", "UNKNOWN")
	buildDirtyStr := getBuildSettingOrDefault(buildInfo, "vcs.modified", "INVALID")
	buildDirty, buildDirtyErr := strconv.ParseBool(buildDirtyStr)

	if buildDirty {
		buildCommit += "-DIRTY"
	} else if buildDirtyErr != nil {
		buildCommit += "-UNKNOWNDIRTY"
	}

	version := VibroWolfVersion
	if version == "" {
		version = "!UNKNOWN!"
	}

	fmt.Printf("vibrowolfd - Version %s (revision %s, built at %s)\n", version, buildCommit, buildTimeStr)
}
