// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newGetCmd(rootCfg *rootConfig) *cobra.Command {
	var output string

	getCmd := &cobra.Command{
		Use:   "get [NODE_PATH]",
		Short: "download the binary content of a node",
		Args:  cobra.ExactArgs(1),
		RunE: rootCfg.run(func(cmd *cobra.Command, args []string) error {
			body, err := execute(rootCfg.repo.NewGetNodeCommand(args[0]))
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}

			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s to %s\n", humanize.Bytes(uint64(len(body))), output)

			return nil
		}),
	}

	getCmd.Flags().StringVarP(&output, "output", "o", "", "write the content to a file instead of stdout")

	return getCmd
}
