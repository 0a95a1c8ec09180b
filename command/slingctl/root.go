// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"path"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/hashicorp-forge/sling-transport/internal/config"
	"github.com/hashicorp-forge/sling-transport/internal/log"
	"github.com/hashicorp-forge/sling-transport/internal/repository"
	"github.com/hashicorp-forge/sling-transport/internal/trace"
	it "github.com/hashicorp-forge/sling-transport/internal/transport"
)

type rootConfig struct {
	configPath   string
	logLevel     string
	url          string
	username     string
	password     string
	trace        bool
	traceSummary bool

	cfg      *config.Config
	log      log.Logger
	repo     repository.Repository
	recorder *trace.Recorder
}

func newRootCommand() *cobra.Command {
	rootCfg := &rootConfig{}

	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:               "slingctl [COMMANDS]",
		SilenceUsage:      true,
		SilenceErrors:     true,
		Short:             "A tool to manage content in a Sling repository",
		Long:              `slingctl creates, reads, updates and deletes nodes in a remote Sling content repository over its HTTP API, and pushes local directory trees into it.`,
		PersistentPreRunE: rootCfg.setup,
	}

	rootCmd.PersistentFlags().StringVar(&rootCfg.configPath, "config", "", "path to the configuration file")
	rootCmd.PersistentFlags().StringVar(&rootCfg.logLevel, "log-level", "", "the log level (error, warn, info, debug)")
	rootCmd.PersistentFlags().StringVar(&rootCfg.url, "url", "", "the repository url, overrides the configuration")
	rootCmd.PersistentFlags().StringVar(&rootCfg.username, "username", "", "the repository username, overrides the configuration")
	rootCmd.PersistentFlags().StringVar(&rootCfg.password, "password", "", "the repository password, overrides the configuration")
	rootCmd.PersistentFlags().BoolVar(&rootCfg.trace, "trace", false, "print every executed command and its outcome")
	rootCmd.PersistentFlags().BoolVar(&rootCfg.traceSummary, "trace-summary", false, "print a summary of executed commands when done")

	rootCmd.AddCommand(newAddCmd(rootCfg))
	rootCmd.AddCommand(newDeleteCmd(rootCfg))
	rootCmd.AddCommand(newLsCmd(rootCfg))
	rootCmd.AddCommand(newGetCmd(rootCfg))
	rootCmd.AddCommand(newContentCmd(rootCfg))
	rootCmd.AddCommand(newUpdateCmd(rootCfg))
	rootCmd.AddCommand(newPushCmd(rootCfg))

	return rootCmd
}

// setup loads the configuration and creates the repository client.
func (r *rootConfig) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(r.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.Repository.URL = r.url
		cfg.Repository.Host = ""
		cfg.Repository.Port = 0
	}
	if flags.Changed("username") {
		cfg.Repository.Username = r.username
	}
	if flags.Changed("password") {
		cfg.Repository.Password = r.password
	}
	if flags.Changed("log-level") {
		cfg.Client.LogLevel = r.logLevel
	}

	level, err := zapcore.ParseLevel(cfg.Client.LogLevel)
	if err != nil {
		return fmt.Errorf("parsing log level: %w", err)
	}

	if r.log == nil {
		r.log, err = log.NewLogger(level)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
	}
	r.cfg = cfg
	r.log.Debug("loaded configuration", map[string]interface{}{
		"config":  cfg.String(),
		"address": cfg.Address(),
	})

	r.recorder = trace.NewRecorder()
	tracers := []trace.Tracer{r.recorder, trace.NewLoggerTracer(r.log)}
	if r.trace {
		tracers = append(tracers, trace.NewWriterTracer(cmd.ErrOrStderr()))
	}

	if r.repo == nil {
		r.repo = repository.NewClient(cfg.Repository,
			repository.WithHTTPClient(cfg.HTTPClient()),
			repository.WithLogger(r.log),
		)
	}
	r.repo.BindTracer(trace.Multi(tracers...))

	return nil
}

// run wraps a RunE func so that the trace summary is printed whether or not
// it fails.
func (r *rootConfig) run(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer r.summarize(cmd)
		return fn(cmd, args)
	}
}

func (r *rootConfig) summarize(cmd *cobra.Command) {
	if !r.traceSummary || r.recorder == nil {
		return
	}

	records := r.recorder.Records()
	failed := r.recorder.Failures()
	fmt.Fprintf(cmd.ErrOrStderr(), "%d commands executed, %d failed\n", len(records), len(failed))
	for _, rec := range failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s -> %s\n", rec.Description, rec.Outcome)
	}
}

// cleanNodePath returns the absolute, cleaned form of nodePath. The
// repository root can't be targeted.
func cleanNodePath(nodePath string) (string, error) {
	cleaned := path.Clean("/" + nodePath)
	if cleaned == "/" {
		return "", fmt.Errorf("invalid node path %q, it must name a node below the repository root", nodePath)
	}

	return cleaned, nil
}

// splitNodePath splits a node path into its parent and name.
func splitNodePath(nodePath string) (repository.FileInfo, error) {
	cleaned, err := cleanNodePath(nodePath)
	if err != nil {
		return repository.FileInfo{}, err
	}

	return repository.FileInfo{
		Name:             path.Base(cleaned),
		RelativeLocation: path.Dir(cleaned),
	}, nil
}

func execute[T any](cmd it.Command[T]) (T, error) {
	v, err := cmd.Execute().Value()
	if err != nil {
		return v, fmt.Errorf("%s: %w", cmd.Description(), err)
	}

	return v, nil
}

func parseResponseType(s string) (repository.ResponseType, error) {
	rt, err := repository.ParseResponseType(s)
	if err != nil {
		return rt, fmt.Errorf("parsing --type: %w", err)
	}

	return rt, nil
}
