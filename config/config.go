package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCacheEntry holds cached configuration with metadata
type configCacheEntry struct {
	config  *Config
	modTime time.Time
}

// Global cache for configuration files
var (
	configCache = make(map[string]*configCacheEntry)
	cacheMutex  sync.RWMutex
)

// Config represents the structure of the configuration file
type Config struct {
	Theme           string `mapstructure:"theme"`
	BackupThreshold int64  `mapstructure:"backup_threshold"`
	BackupSuffix    string `mapstructure:"backup_suffix"`
	HeaderScanLines int    `mapstructure:"header_scan_lines"`
	AtomicWrite     bool   `mapstructure:"atomic_write"`
	EnableCache     bool   `mapstructure:"enable_cache"`
	CacheDir        string `mapstructure:"cache_dir"`
	TimestampSource string `mapstructure:"timestamp_source"`
	IgnoreFile      string `mapstructure:"ignore_file"`
	MaxFileSize     int64  `mapstructure:"max_file_size"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Theme:           "dracula",
	BackupThreshold: 10240,
	BackupSuffix:    ".bak",
	HeaderScanLines: 20,
	AtomicWrite:     true,
	EnableCache:     false,
	CacheDir:        "",
	TimestampSource: "fs",
	IgnoreFile:      ".about-ignore",
	MaxFileSize:     0,
}

// Version is the aboutwriter release reported by --version.
const Version = "1.0.0"

const (
	configName = "about-config"
	envPrefix  = "ABOUT"
)

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs builds the configuration from defaults, a .env file in cwd,
// ABOUT_* environment variables, the config file and finally CLI flags.
func LoadConfigs(rootCmd *cobra.Command, cwd string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// .env never overrides variables that are already set
	if err := godotenv.Load(filepath.Join(cwd, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if cfgFile != "" {
		if GetConfigFileType(cfgFile) == "" {
			return nil, fmt.Errorf("unsupported config file %s: want .json, .yaml or .yml", cfgFile)
		}
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if path := findConfigFile(cwd); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	if rootCmd != nil {
		bindFlags(v, rootCmd)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	switch c.TimestampSource {
	case "fs", "git":
	default:
		return fmt.Errorf("invalid timestamp_source %q: want fs or git", c.TimestampSource)
	}
	if c.BackupThreshold < 0 {
		return fmt.Errorf("invalid backup_threshold %d", c.BackupThreshold)
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("invalid max_file_size %d", c.MaxFileSize)
	}
	if c.BackupSuffix == "" {
		return fmt.Errorf("backup_suffix must not be empty")
	}
	return nil
}

// setDefaults sets all default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("theme", DefaultConfig.Theme)
	v.SetDefault("backup_threshold", DefaultConfig.BackupThreshold)
	v.SetDefault("backup_suffix", DefaultConfig.BackupSuffix)
	v.SetDefault("header_scan_lines", DefaultConfig.HeaderScanLines)
	v.SetDefault("atomic_write", DefaultConfig.AtomicWrite)
	v.SetDefault("enable_cache", DefaultConfig.EnableCache)
	v.SetDefault("cache_dir", DefaultConfig.CacheDir)
	v.SetDefault("timestamp_source", DefaultConfig.TimestampSource)
	v.SetDefault("ignore_file", DefaultConfig.IgnoreFile)
	v.SetDefault("max_file_size", DefaultConfig.MaxFileSize)
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(v *viper.Viper, rootCmd *cobra.Command) {
	flags := rootCmd.PersistentFlags()
	_ = v.BindPFlag("theme", flags.Lookup("theme"))
	_ = v.BindPFlag("enable_cache", flags.Lookup("enable_cache"))
	_ = v.BindPFlag("cache_dir", flags.Lookup("cache_dir"))
	_ = v.BindPFlag("timestamp_source", flags.Lookup("timestamp_source"))
	_ = v.BindPFlag("max_file_size", flags.Lookup("max_file_size"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to a configuration file (JSON or YAML).")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Highlight theme for the dry-run preview (e.g., 'dracula', 'monokai', 'github').")
	rootCmd.PersistentFlags().Bool("enable_cache", DefaultConfig.EnableCache, "Remember annotated files and skip them while unchanged.")
	rootCmd.PersistentFlags().String("cache_dir", DefaultConfig.CacheDir, "Directory for the annotation ledger (default: user cache directory).")
	rootCmd.PersistentFlags().String("timestamp_source", DefaultConfig.TimestampSource, "Where the creation date comes from: 'fs' or 'git'.")
	rootCmd.PersistentFlags().Int64("max_file_size", DefaultConfig.MaxFileSize, "Skip files larger than this many bytes (0 = no limit).")
}

// findConfigFile looks for about-config.{yml,yaml,json} in cwd.
func findConfigFile(cwd string) string {
	for _, ext := range []string{".yml", ".yaml", ".json"} {
		path := filepath.Join(cwd, configName+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// GetConfigFileType returns the type of the configuration file based on its extension
func GetConfigFileType(filename string) string {
	if strings.HasSuffix(filename, ".json") {
		return "json"
	} else if strings.HasSuffix(filename, ".yaml") || strings.HasSuffix(filename, ".yml") {
		return "yaml"
	}
	return ""
}

// LoadConfigWithCache loads configuration, reusing the last result while the
// config file is unchanged.
func LoadConfigWithCache(rootCmd *cobra.Command, cwd string) (*Config, error) {
	configFilePath := cfgFile
	if configFilePath == "" {
		configFilePath = findConfigFile(cwd)
	}

	// Flags and environment change between calls; only file-backed
	// configuration without explicit flags is cached.
	if configFilePath == "" || (rootCmd != nil && rootCmd.Flags().NFlag() > 0) {
		return LoadConfigs(rootCmd, cwd)
	}

	fileInfo, err := os.Stat(configFilePath)
	if err != nil {
		return LoadConfigs(rootCmd, cwd)
	}

	cacheMutex.RLock()
	if cached, exists := configCache[configFilePath]; exists && fileInfo.ModTime().Equal(cached.modTime) {
		cacheMutex.RUnlock()
		return cached.config, nil
	}
	cacheMutex.RUnlock()

	config, err := LoadConfigs(rootCmd, cwd)
	if err != nil {
		return nil, err
	}

	cacheMutex.Lock()
	configCache[configFilePath] = &configCacheEntry{
		config:  config,
		modTime: fileInfo.ModTime(),
	}
	cacheMutex.Unlock()

	return config, nil
}

// ClearConfigCache clears all cached configuration files
func ClearConfigCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	configCache = make(map[string]*configCacheEntry)
}

// GetConfigCacheStats returns statistics about the configuration cache
func GetConfigCacheStats() map[string]interface{} {
	cacheMutex.RLock()
	defer cacheMutex.RUnlock()

	entries := make([]string, 0, len(configCache))
	for path := range configCache {
		entries = append(entries, path)
	}

	return map[string]interface{}{
		"cached_files":  len(configCache),
		"cache_entries": entries,
	}
}
