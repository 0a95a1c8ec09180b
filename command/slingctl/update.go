// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hashicorp-forge/sling-transport/internal/repository"
)

func newUpdateCmd(rootCfg *rootConfig) *cobra.Command {
	var sourceName string

	updateCmd := &cobra.Command{
		Use:   "update [NODE_PATH] [KEY=VALUE]...",
		Short: "set properties on a node, creating it if needed",
		Args:  cobra.MinimumNArgs(2),
		RunE: rootCfg.run(func(cmd *cobra.Command, args []string) error {
			nodePath, err := cleanNodePath(args[0])
			if err != nil {
				return err
			}

			props, err := parseProperties(args[1:])
			if err != nil {
				return err
			}

			fi := repository.FileInfo{
				Name:             sourceName,
				RelativeLocation: nodePath,
			}

			_, err = execute(rootCfg.repo.NewUpdateContentNodeCommand(fi, props))

			return err
		}),
	}

	updateCmd.Flags().StringVar(&sourceName, "source-name", ".content.xml", "the name of the local file the properties come from")

	return updateCmd
}

func parseProperties(args []string) (map[string]string, error) {
	props := map[string]string{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q, expected KEY=VALUE", arg)
		}
		props[key] = value
	}

	return props, nil
}
