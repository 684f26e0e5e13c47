package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/2096779623/xLog/config"
	"github.com/2096779623/xLog/ipfsurl"
	"github.com/2096779623/xLog/logging"
)

// app carries per-invocation state shared by subcommands.
type app struct {
	v       *viper.Viper
	cfgFile string

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.NewViper(), in: in, out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "xlog-ipfs",
		Short: "Convert and fetch IPFS content addresses",
		Long: `xlog-ipfs converts between ipfs:// addresses and HTTP gateway URLs,
rewrites site stylesheets to the primary gateway, and fetches verified blocks
through the configured gateways.

The primary gateway comes from --gateway, ` + config.EnvPrimaryGateway + ` or the config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error { return cmd.Help() },
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError{err} })

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("gateway", "", "primary gateway base, e.g. https://ipfs.xlog.app/ipfs/")
	pf.String("mode", "", "prefix matching: anchored or replace-all")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("log-format", "", "log format (text, json)")
	for key, flag := range map[string]string{
		"gateway.primary": "gateway",
		"gateway.mode":    "mode",
		"log.level":       "log-level",
		"log.format":      "log-format",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.convertCmd("gateway", "Render addresses as primary gateway URLs", func(n *ipfsurl.Normalizer, s string) string { return n.ToGateway(s) }),
		a.convertCmd("ipfs", "Render addresses in canonical ipfs:// form", func(n *ipfsurl.Normalizer, s string) string { return n.ToIPFS(s) }),
		a.convertCmd("cid", "Strip every recognized prefix, leaving the CID", func(n *ipfsurl.Normalizer, s string) string { return n.ToCID(s) }),
		a.parseCmd(),
		a.cssCmd(),
		a.fetchCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) load() (*config.Config, *ipfsurl.Normalizer, error) {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return nil, nil, err
	}
	n, err := cfg.Normalizer()
	if err != nil {
		return nil, nil, err
	}
	return cfg, n, nil
}

func (a *app) logger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(a.errOut, cfg.Log.Level, cfg.Log.Format)
}

func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("%s: requires at least %d argument(s)", cmd.Name(), n)
		}
		return nil
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s: requires exactly %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}
