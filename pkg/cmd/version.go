package cmd

import "fmt"

// BuildTime -
var BuildTime string

// BuildVersion -
var BuildVersion string

// BuildCommitSha -
var BuildCommitSha string

const devVersion = "dev"

// GetVersion - version and commit as set at build time
func GetVersion() string {
	version := BuildVersion
	if version == "" {
		version = devVersion
	}
	if BuildCommitSha == "" {
		return version
	}
	return fmt.Sprintf("%s-%s", version, BuildCommitSha)
}

func userAgentVersion() string {
	if BuildVersion == "" {
		return devVersion
	}
	return BuildVersion
}
