// Command beam runs a reference server: it exposes directories from the
// configuration file as file:// resources and serves them over stdio or TCP.
// Tool registration is a library concern; embed the beam package to serve
// your own tools.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/beamkit/beam"
	"github.com/beamkit/beam/internal/config"
	"github.com/beamkit/beam/mcp"
	beamfs "github.com/beamkit/beam/providers/fs"
	"github.com/beamkit/beam/session"
)

var version = "0.1.0"

var (
	flagConfig    string
	flagTransport string
	flagAddr      string
)

var rootCmd = &cobra.Command{
	Use:   "beam",
	Short: "Serve tools, resources and prompts over JSON-RPC",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server with the configured transport",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		if flagTransport != "" {
			cfg.Transport.Kind = flagTransport
		}
		if flagAddr != "" {
			cfg.Transport.Addr = flagAddr
		}

		log := logrus.New()
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(level)
		}
		if cfg.Transport.Kind == "stdio" {
			// Stdout carries the protocol; keep logs off it.
			log.SetOutput(os.Stderr)
		}

		svc := beam.New(cfg.Name, cfg.Version)
		for _, root := range cfg.Resources {
			if err := beamfs.Register(svc.Resources(), root.Path, root.Patterns); err != nil {
				return err
			}
			log.WithField("root", root.Path).Info("registered resource root")
		}

		srv := mcp.NewServer(svc, mcp.WithLogger(log))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		switch cfg.Transport.Kind {
		case "stdio":
			log.Info("serving on stdio")
			return srv.ServeStdio(ctx)
		case "tcp":
			mgr := session.NewManager(cfg.Session.IdleTTL, cfg.Session.SweepEvery)
			defer mgr.Close()
			log.WithField("addr", cfg.Transport.Addr).Info("serving on tcp")
			err := srv.ServeTCP(ctx, cfg.Transport.Addr, mgr)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		default:
			return fmt.Errorf("unknown transport %q", cfg.Transport.Kind)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("beam %s\n", version)
	},
}

func main() {
	_ = godotenv.Load()

	serveCmd.Flags().StringVarP(&flagConfig, "config", "c", "beam.yaml", "path to the configuration file")
	serveCmd.Flags().StringVarP(&flagTransport, "transport", "t", "", "override the transport (stdio or tcp)")
	serveCmd.Flags().StringVarP(&flagAddr, "addr", "a", "", "override the tcp listen address")

	rootCmd.AddCommand(serveCmd, versionCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
