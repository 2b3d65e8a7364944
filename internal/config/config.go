package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	// Paths
	ConfigDir  string
	ConfigFile string
	CacheDir   string

	// Kubernetes
	KubeconfigPath string
	RequestTimeout time.Duration

	// Output
	DefaultOutput string
}

// NewConfig creates a new configuration from defaults, $HOME/.rk/config.yaml and RK_* variables
func NewConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return Load(filepath.Join(homeDir, ".rk"), homeDir)
}

// Load reads configuration from configDir, using homeDir for defaults.
// A missing config file is fine; a malformed one is not.
func Load(configDir, homeDir string) (*Config, error) {
	v := viper.New()
	configFile := filepath.Join(configDir, "config.yaml")
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("RK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	kubeconfigPath := os.Getenv("KUBECONFIG")
	if kubeconfigPath == "" {
		kubeconfigPath = filepath.Join(homeDir, ".kube", "config")
	}

	v.SetDefault("cache_dir", filepath.Join(homeDir, ".kube", "cache"))
	v.SetDefault("kubeconfig", kubeconfigPath)
	v.SetDefault("output", "")
	v.SetDefault("request_timeout", time.Duration(0))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", configFile, err)
		}
	}

	return &Config{
		ConfigDir:      configDir,
		ConfigFile:     configFile,
		CacheDir:       v.GetString("cache_dir"),
		KubeconfigPath: v.GetString("kubeconfig"),
		RequestTimeout: v.GetDuration("request_timeout"),
		DefaultOutput:  v.GetString("output"),
	}, nil
}
