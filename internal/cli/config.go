package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/domclone/pkg/clone"
	"github.com/matzehuels/domclone/pkg/errors"
)

// Config is the on-disk configuration file.
//
//	[clone]
//	batch_size = 100
//	workers = 8
//	root_class = "DataModel"
//	preserve_order = true
//	verify = false
type Config struct {
	Clone CloneConfig `toml:"clone"`
}

// CloneConfig holds defaults for the clone command.
type CloneConfig struct {
	BatchSize     int    `toml:"batch_size"`
	Workers       int    `toml:"workers"`
	RootClass     string `toml:"root_class"`
	PreserveOrder bool   `toml:"preserve_order"`
	Verify        bool   `toml:"verify"`
}

// defaultConfig returns the configuration used when no file sets a value.
func defaultConfig() Config {
	return Config{Clone: CloneConfig{
		BatchSize:     clone.DefaultBatchSize,
		RootClass:     clone.DefaultRootClass,
		PreserveOrder: true,
	}}
}

// configPath returns the config file location using the XDG standard
// (~/.config/domclone/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads the config file at path on top of the defaults. An empty
// path selects the default location, which may be absent; an explicit path
// must exist.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// cloneFlags holds the clone command's flag values.
type cloneFlags struct {
	configFile    string
	batchSize     int
	workers       int
	rootClass     string
	preserveOrder bool
	verify        bool
	metricsFile   string
}

// apply overrides cfg with every flag set explicitly on the command line.
func (f *cloneFlags) apply(cmd *cobra.Command, cfg *CloneConfig) {
	flags := cmd.Flags()
	if flags.Changed("batch-size") {
		cfg.BatchSize = f.batchSize
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if flags.Changed("root-class") {
		cfg.RootClass = f.rootClass
	}
	if flags.Changed("preserve-order") {
		cfg.PreserveOrder = f.preserveOrder
	}
	if flags.Changed("verify") {
		cfg.Verify = f.verify
	}
}

// validate checks the merged settings before a run.
func (c CloneConfig) validate() error {
	if err := errors.ValidateBatchSize(c.BatchSize); err != nil {
		return err
	}
	if err := errors.ValidateWorkers(c.Workers); err != nil {
		return err
	}
	return errors.ValidateClassName(c.RootClass)
}
