package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/2096779623/xLog/ipfsurl"
)

func (a *app) convertCmd(name, short string, conv func(*ipfsurl.Normalizer, string) string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <value>...",
		Short: short,
		Args:  minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, n, err := a.load()
			if err != nil {
				return err
			}
			for _, s := range args {
				fmt.Fprintln(a.out, conv(n, s))
			}
			return nil
		},
	}
}

type parsed struct {
	CID     string `json:"cid"`
	Version uint64 `json:"version"`
	Codec   uint64 `json:"codec"`
	Path    string `json:"path,omitempty"`
	IPFS    string `json:"ipfs"`
	Gateway string `json:"gateway"`
}

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <value>",
		Short: "Decode an address and print its parts as JSON",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, n, err := a.load()
			if err != nil {
				return err
			}
			addr, err := n.Parse(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(parsed{
				CID:     addr.CID.String(),
				Version: addr.CID.Version(),
				Codec:   addr.CID.Type(),
				Path:    addr.Path,
				IPFS:    addr.String(),
				Gateway: addr.URL(n.Gateway()),
			})
		},
	}
}

func (a *app) cssCmd() *cobra.Command {
	var dataURL bool
	cmd := &cobra.Command{
		Use:   "css <file|->",
		Short: "Point every IPFS URL in a stylesheet at the primary gateway",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, n, err := a.load()
			if err != nil {
				return err
			}
			var b []byte
			if args[0] == "-" {
				b, err = io.ReadAll(a.in)
			} else {
				b, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read stylesheet: %w", err)
			}
			if dataURL {
				fmt.Fprintln(a.out, n.StylesheetDataURL(string(b)))
				return nil
			}
			_, err = io.WriteString(a.out, n.RewriteStylesheet(string(b)))
			return err
		},
	}
	cmd.Flags().BoolVar(&dataURL, "data-url", false, "print a data:text/css;base64 URL instead of CSS")
	return cmd
}
