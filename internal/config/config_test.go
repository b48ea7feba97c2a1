package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "src")
	replica := filepath.Join(base, "dst")

	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid one-shot",
			cfg:  Config{Source: source, Replica: replica},
		},
		{
			name: "valid periodic",
			cfg:  Config{Source: source, Replica: replica, Interval: 60},
		},
		{
			name:    "missing source",
			cfg:     Config{Replica: replica},
			wantErr: "source folder is required",
		},
		{
			name:    "missing replica",
			cfg:     Config{Source: source},
			wantErr: "replica folder is required",
		},
		{
			name:    "negative interval",
			cfg:     Config{Source: source, Replica: replica, Interval: -5},
			wantErr: "interval must be a positive number",
		},
		{
			name:    "source equals replica",
			cfg:     Config{Source: source, Replica: source},
			wantErr: "must be different folders",
		},
		{
			name:    "replica nested in source",
			cfg:     Config{Source: source, Replica: filepath.Join(source, "mirror")},
			wantErr: "replica cannot be inside the source",
		},
		{
			name:    "source nested in replica",
			cfg:     Config{Source: filepath.Join(replica, "data"), Replica: replica},
			wantErr: "source cannot be inside the replica",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.cfg.Validate()
			if c.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, c.wantErr)
			}
		})
	}
}

func TestConfigSyncInterval(t *testing.T) {
	cfg := Config{Interval: 90}
	assert.Equal(t, 90*time.Second, cfg.SyncInterval())

	cfg.Interval = 0
	assert.Zero(t, cfg.SyncInterval())
}
