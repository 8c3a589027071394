// Package shadowconfig loads git-shadow's ambient configuration: the
// overlay size limit, whether phantom adds default to managed-ignore, and
// a doctor slow-check threshold (stored only; see DoctorSlowThresholdMS).
// Precedence, highest first: CLI
// flags, environment (GIT_SHADOW_*), an optional per-repo .git-shadow.toml,
// then built-in defaults.
//
// Grounded on the teacher's use of spf13/viper for layered configuration;
// BurntSushi/toml is used directly (not through viper's codec registry) to
// read and write the on-disk file, mirroring how the teacher repo vendors
// BurntSushi/toml as a direct dependency alongside viper rather than relying
// solely on viper's bundled format support.
package shadowconfig

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
)

// Config is the resolved, merged configuration for one invocation.
type Config struct {
	// SizeLimitBytes is the maximum overlay size Add accepts without
	// --force. 0 disables the check.
	SizeLimitBytes int64 `toml:"size_limit_bytes"`

	// DefaultExcludeManaged is the default exclude-mode new phantom entries
	// get when --no-exclude is not passed.
	DefaultExcludeManaged bool `toml:"default_exclude_managed"`

	// DoctorSlowThresholdMS is a threshold in milliseconds for doctor
	// checks. It is loaded and written like the other fields, but no
	// doctor check reads it; doctor does not time its checks.
	DoctorSlowThresholdMS int `toml:"doctor_slow_threshold_ms"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SizeLimitBytes:        atomicio.DefaultSizeLimit,
		DefaultExcludeManaged: true,
		DoctorSlowThresholdMS: 1000,
	}
}

// FileName is the per-repo config file git-shadow looks for at the
// repository root.
const FileName = ".git-shadow.toml"

// Load resolves configuration for repoRoot, merging (highest precedence
// first) environment variables prefixed GIT_SHADOW_ and
// <repoRoot>/.git-shadow.toml over the built-in defaults. It never returns
// an error for a missing config file; a malformed one is reported so the
// caller can decide whether to fail the command or fall back to defaults.
func Load(repoRoot string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("GIT_SHADOW")
	v.AutomaticEnv()
	_ = v.BindEnv("size_limit_bytes")
	_ = v.BindEnv("default_exclude_managed")
	_ = v.BindEnv("doctor_slow_threshold_ms")

	path := filepath.Join(repoRoot, FileName)
	if atomicio.Exists(path) {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Default(), err
		}
	}

	// Environment overrides the file, if set.
	if v.IsSet("size_limit_bytes") {
		cfg.SizeLimitBytes = v.GetInt64("size_limit_bytes")
	}
	if v.IsSet("default_exclude_managed") {
		cfg.DefaultExcludeManaged = v.GetBool("default_exclude_managed")
	}
	if v.IsSet("doctor_slow_threshold_ms") {
		cfg.DoctorSlowThresholdMS = v.GetInt("doctor_slow_threshold_ms")
	}

	return cfg, nil
}

// WriteDefault writes the built-in configuration to <repoRoot>/.git-shadow.toml,
// for the `git-shadow config init` convenience command. It refuses to
// overwrite an existing file.
func WriteDefault(repoRoot string) (string, error) {
	path := filepath.Join(repoRoot, FileName)
	if atomicio.Exists(path) {
		return path, os.ErrExist
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return path, err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(Default()); err != nil {
		return path, err
	}
	return path, nil
}
