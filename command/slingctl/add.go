// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hashicorp-forge/sling-transport/internal/repository"
)

func newAddCmd(rootCfg *rootConfig) *cobra.Command {
	var name string

	addCmd := &cobra.Command{
		Use:   "add [LOCAL_PATH] [PARENT_NODE_PATH]",
		Short: "create a node below the parent node, uploading the local file if it is a regular file",
		Args:  cobra.ExactArgs(2),
		RunE: rootCfg.run(func(cmd *cobra.Command, args []string) error {
			fi := repository.FileInfo{
				Name:             name,
				RelativeLocation: args[1],
				Location:         args[0],
			}
			if fi.Name == "" {
				fi.Name = filepath.Base(args[0])
			}

			if _, err := execute(rootCfg.repo.NewAddNodeCommand(fi)); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), fi.NodePath())

			return nil
		}),
	}

	addCmd.Flags().StringVar(&name, "name", "", "the node name, defaults to the base name of the local path")

	return addCmd
}
