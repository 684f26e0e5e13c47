package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/2096779623/xLog/httpapi"
	"github.com/2096779623/xLog/rpc"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API and the gRPC Address service",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, n, err := a.load()
			if err != nil {
				return err
			}
			log, err := a.logger(cfg)
			if err != nil {
				return err
			}
			cas, closeStorage, err := cfg.OpenStorage(n, log)
			if err != nil {
				return err
			}
			defer closeStorage()

			httpLis, err := net.Listen("tcp", cfg.Server.HTTPAddr)
			if err != nil {
				return err
			}
			grpcLis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
			if err != nil {
				_ = httpLis.Close()
				return err
			}

			httpSrv := &http.Server{
				Handler:           httpapi.New(n, cas, log).Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			grpcSrv := grpc.NewServer()
			rpc.RegisterAddressServer(grpcSrv, &rpc.Server{Normalizer: n, CAS: cas, Logger: log})

			log.Info("serving",
				slog.String("http", httpLis.Addr().String()),
				slog.String("grpc", grpcLis.Addr().String()),
				slog.String("gateway", n.Gateway()),
				slog.String("mode", n.Mode().String()),
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				if err := httpSrv.Serve(httpLis); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error { return grpcSrv.Serve(grpcLis) })
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				err := httpSrv.Shutdown(shutdownCtx)
				grpcSrv.GracefulStop()
				log.Info("stopped")
				return err
			})
			return g.Wait()
		},
	}
	cmd.Flags().String("http-addr", "", "HTTP listen address")
	cmd.Flags().String("grpc-addr", "", "gRPC listen address")
	_ = a.v.BindPFlag("server.http_addr", cmd.Flags().Lookup("http-addr"))
	_ = a.v.BindPFlag("server.grpc_addr", cmd.Flags().Lookup("grpc-addr"))
	return cmd
}
