package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devtonic-net/unisync/internal/utils"
)

var (
	home, _           = os.UserHomeDir()
	DefaultConfigPath = filepath.Join(home, ".unisync", "config.json")
)

// DefaultLogFile is where operations are logged when no log file is given.
const DefaultLogFile = "mylog.log"

// Config is the fully resolved runtime configuration for one unisync run.
type Config struct {
	Source   string `json:"source"`
	Replica  string `json:"replica"`
	Interval int    `json:"interval"` // seconds between passes; 0 runs a single pass
	LogFile  string `json:"log_file"`
	Watch    bool   `json:"watch"`
	Path     string `json:"-"`
}

// Validate checks that the configuration describes a runnable sync: both
// folders set, distinct, not nested inside each other, and a sane interval.
func (c *Config) Validate() error {
	if c.Source == "" {
		return errors.New("source folder is required")
	}
	if c.Replica == "" {
		return errors.New("replica folder is required")
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must be a positive number of seconds, got %d", c.Interval)
	}

	source, err := utils.ResolvePath(c.Source)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	replica, err := utils.ResolvePath(c.Replica)
	if err != nil {
		return fmt.Errorf("resolve replica: %w", err)
	}

	if source == replica {
		return errors.New("source and replica must be different folders")
	}

	sep := string(filepath.Separator)
	if strings.HasPrefix(replica, source+sep) {
		return errors.New("replica cannot be inside the source folder")
	}
	if strings.HasPrefix(source, replica+sep) {
		return errors.New("source cannot be inside the replica folder")
	}

	return nil
}

// SyncInterval returns the configured interval as a duration.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}
