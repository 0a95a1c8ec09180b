// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/hashicorp-forge/sling-transport/internal/repository"
)

const (
	envPrefix = "SLING"

	repositoryURLKey      = "repository.url"
	repositoryHostKey     = "repository.host"
	repositoryPortKey     = "repository.port"
	repositoryUsernameKey = "repository.username"
	repositoryPasswordKey = "repository.password"
	clientTimeoutKey      = "client.timeout"
	clientLogLevelKey     = "client.log_level"

	DefaultURL      = "http://localhost:8080"
	DefaultUsername = "admin"
	DefaultPassword = "admin"
	DefaultTimeout  = 30 * time.Second
	DefaultLogLevel = "info"
)

// Config is the slingctl configuration.
type Config struct {
	Repository repository.RepositoryInfo `mapstructure:"repository"`
	Client     ClientConfig              `mapstructure:"client"`
}

// ClientConfig configures the HTTP client and logging.
type ClientConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	LogLevel string        `mapstructure:"log_level"`
}

func (c ClientConfig) String() string {
	return fmt.Sprintf(`{
Timeout: %s
LogLevel: %s
}`, c.Timeout, c.LogLevel)
}

// String implements the fmt.Stringer interface. The password is masked.
func (c Config) String() string {
	return fmt.Sprintf(`{
Repository: %s
Client: %s
}`, c.Repository, c.Client)
}

// Level returns the parsed log level.
func (c *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.Client.LogLevel)
}

// HTTPClient returns a pooled HTTP client with the configured timeout.
func (c *Config) HTTPClient() *http.Client {
	client := cleanhttp.DefaultPooledClient()
	client.Timeout = c.Client.Timeout

	return client
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(repositoryURLKey, DefaultURL)
	v.SetDefault(repositoryHostKey, "")
	v.SetDefault(repositoryPortKey, 0)
	v.SetDefault(repositoryUsernameKey, DefaultUsername)
	v.SetDefault(repositoryPasswordKey, DefaultPassword)
	v.SetDefault(clientTimeoutKey, DefaultTimeout)
	v.SetDefault(clientLogLevelKey, DefaultLogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the configuration file at path, if any, applies SLING_*
// environment overrides and fills in defaults.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// finalize validates the configuration and derives the host and port from
// the repository URL when they're not set.
func (c *Config) finalize() error {
	if c.Repository.URL == "" {
		return errors.New("repository url is required")
	}

	u, err := url.Parse(c.Repository.URL)
	if err != nil {
		return fmt.Errorf("parsing repository url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("repository url %s must use http or https", c.Repository.URL)
	}

	if u.Host == "" {
		return fmt.Errorf("repository url %s has no host", c.Repository.URL)
	}

	if c.Repository.Host == "" {
		c.Repository.Host = u.Hostname()
	}

	if c.Repository.Port == 0 {
		port := u.Port()
		switch {
		case port != "":
			c.Repository.Port, err = strconv.Atoi(port)
			if err != nil {
				return fmt.Errorf("parsing repository port: %w", err)
			}
		case u.Scheme == "https":
			c.Repository.Port = 443
		default:
			c.Repository.Port = 80
		}
	}

	if c.Client.Timeout < 0 {
		return fmt.Errorf("client timeout must not be negative: %s", c.Client.Timeout)
	}

	if _, err := c.Level(); err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	return nil
}

// Address returns the host:port of the repository.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Repository.Host, strconv.Itoa(c.Repository.Port))
}
