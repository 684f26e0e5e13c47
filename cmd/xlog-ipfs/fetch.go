package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) fetchCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "fetch <value>",
		Short: "Fetch and verify the block an address names",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, n, err := a.load()
			if err != nil {
				return err
			}
			log, err := a.logger(cfg)
			if err != nil {
				return err
			}
			addr, err := n.Parse(args[0])
			if err != nil {
				return err
			}
			if addr.Path != "" {
				return usagef("fetch: %q has a path; pass the block CID", args[0])
			}
			cas, closeStorage, err := cfg.OpenStorage(n, log)
			if err != nil {
				return err
			}
			defer closeStorage()
			b, err := cas.Get(cmd.Context(), addr.CID)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", addr.CID, err)
			}
			if output == "" || output == "-" {
				_, err = a.out.Write(b)
				return err
			}
			return os.WriteFile(output, b, 0o644)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the block to this file instead of stdout")
	return cmd
}
