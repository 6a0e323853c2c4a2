package cmd

import cmderrors "github.com/54Rakshit/mashery-export-xlsx/pkg/util/errors"

// Errors hit while reading the configuration sources
var (
	ErrEnvFile    = cmderrors.Newf(1411, "could not load the env file %s: %v")
	ErrConfigFile = cmderrors.Newf(1412, "could not read the config file: %v")
)
