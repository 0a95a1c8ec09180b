// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsCmd(rootCfg *rootConfig) *cobra.Command {
	var responseType string

	lsCmd := &cobra.Command{
		Use:   "ls [NODE_PATH]",
		Short: "print a node and its direct children",
		Args:  cobra.ExactArgs(1),
		RunE: rootCfg.run(func(cmd *cobra.Command, args []string) error {
			rt, err := parseResponseType(responseType)
			if err != nil {
				return err
			}

			body, err := execute(rootCfg.repo.NewListChildrenNodeCommand(args[0], rt))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), body)

			return nil
		}),
	}

	lsCmd.Flags().StringVar(&responseType, "type", "json", "the response type (json, xml)")

	return lsCmd
}

func newContentCmd(rootCfg *rootConfig) *cobra.Command {
	var responseType string

	contentCmd := &cobra.Command{
		Use:   "content [NODE_PATH]",
		Short: "print the properties of a node",
		Args:  cobra.ExactArgs(1),
		RunE: rootCfg.run(func(cmd *cobra.Command, args []string) error {
			rt, err := parseResponseType(responseType)
			if err != nil {
				return err
			}

			body, err := execute(rootCfg.repo.NewGetNodeContentCommand(args[0], rt))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), body)

			return nil
		}),
	}

	contentCmd.Flags().StringVar(&responseType, "type", "json", "the response type (json, xml)")

	return contentCmd
}
