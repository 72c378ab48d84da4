package main

import (
	"fmt"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
)

const (
	defaultSealedDir  = "sealed"
	defaultListenAddr = ":8080"
	defaultMaxRepoID  = 1000
	defaultLogFile    = "trustchaind.log"
	defaultLogLevel   = "info"
)

// config holds the command-line options trustchaind starts from, the way
// the teacher's daemon would if it exposed flags instead of hardcoding
// every dependency in runNode.
type config struct {
	SealedDir  string `long:"sealeddir" description:"directory holding the sealed enclave keypair" default:"sealed"`
	ListenAddr string `long:"listen" description:"HTTP façade listen address" default:":8080"`
	MaxRepoID  uint32 `long:"maxrepoid" description:"repository registry capacity" default:"1000"`
	LogDir     string `long:"logdir" description:"directory for the rotating log file" default:"."`
	DebugLevel string `long:"debuglevel" description:"logging level (trace|debug|info|warn|error|critical)" default:"info"`
}

func loadConfig() (*config, error) {
	cfg := config{
		SealedDir:  defaultSealedDir,
		ListenAddr: defaultListenAddr,
		MaxRepoID:  defaultMaxRepoID,
		LogDir:     ".",
		DebugLevel: defaultLogLevel,
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if ok := asFlagsHelpError(err, &flagsErr); ok {
			os.Exit(0)
		}
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := os.MkdirAll(cfg.SealedDir, 0o700); err != nil {
		return nil, fmt.Errorf("create sealed dir: %w", err)
	}
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	return &cfg, nil
}

func (c *config) logFilePath() string {
	return filepath.Join(c.LogDir, defaultLogFile)
}

func asFlagsHelpError(err error, target **flags.Error) bool {
	flagsErr, ok := err.(*flags.Error)
	if ok && flagsErr.Type == flags.ErrHelp {
		*target = flagsErr
		return true
	}
	return false
}
