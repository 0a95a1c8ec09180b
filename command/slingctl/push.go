// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/hashicorp-forge/sling-transport/internal/push"
	istrings "github.com/hashicorp-forge/sling-transport/internal/strings"
)

func newPushCmd(rootCfg *rootConfig) *cobra.Command {
	var ignores []string

	pushCmd := &cobra.Command{
		Use:   "push [LOCAL_DIR] [NODE_PATH]",
		Short: "upload every file below the local directory into the repository",
		Args:  cobra.ExactArgs(2),
		RunE: rootCfg.run(func(cmd *cobra.Command, args []string) error {
			pusher, err := push.New(rootCfg.repo,
				push.WithIgnores(ignores...),
				push.WithLogger(rootCfg.log),
			)
			if err != nil {
				return err
			}

			report, err := pusher.Push(args[0], args[1])
			if err != nil {
				return err
			}

			ok := color.New(color.FgGreen).Sprintf("%6s", "OK")
			failed := color.New(color.FgRed, color.Bold).Sprintf("%6s", "FAILED")
			out := cmd.OutOrStdout()
			for _, item := range report.Items {
				if item.Succeeded() {
					fmt.Fprintf(out, "%s %s\n", ok, item.FileInfo.NodePath())
					continue
				}
				fmt.Fprintf(out, "%s %s\n", failed, item.FileInfo.NodePath())
			}
			fmt.Fprintf(out, "%d pushed, %d failed, %d ignored\n",
				len(report.Items)-len(report.Failed()), len(report.Failed()), len(report.Ignored))

			if err := report.Err(); err != nil {
				return fmt.Errorf("push failed:\n%s", istrings.Indent("  ", err.Error()))
			}

			return nil
		}),
	}

	pushCmd.Flags().StringSliceVar(&ignores, "ignore", []string{".git/", ".svn/", ".DS_Store"}, "doublestar patterns of paths to skip")

	return pushCmd
}
