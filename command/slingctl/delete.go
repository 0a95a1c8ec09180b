// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"github.com/spf13/cobra"
)

func newDeleteCmd(rootCfg *rootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [NODE_PATH]",
		Short: "delete a node and everything below it",
		Args:  cobra.ExactArgs(1),
		RunE: rootCfg.run(func(cmd *cobra.Command, args []string) error {
			fi, err := splitNodePath(args[0])
			if err != nil {
				return err
			}

			_, err = execute(rootCfg.repo.NewDeleteNodeCommand(fi))

			return err
		}),
	}
}
