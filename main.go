package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deskstream/internal/capture"
	"deskstream/internal/clients"
	"deskstream/internal/config"
	"deskstream/internal/hostinput"
	"deskstream/internal/input"
	"deskstream/internal/logging"
	"deskstream/internal/rtc"
	"deskstream/internal/server"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()

	root := &cobra.Command{
		Use:           "deskstream",
		Short:         "Share this desktop with browsers as an MJPEG stream",
		Long:          `deskstream captures the primary display, streams it to any number of browsers as motion JPEG and replays their mouse and keyboard input on this machine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(v)
		},
	}

	flags := root.PersistentFlags()
	flags.String("addr", "", "Address to listen on (default 0.0.0.0:8080)")
	flags.String("static", "", "Serve the viewer page from this directory instead of the built-in one")
	flags.String("log-level", "", "Log level: debug, info, warn, error")
	flags.String("log-format", "", "Log format: text or json")
	flags.StringSlice("ice-server", nil, "STUN/TURN server URL for WebRTC control (repeatable)")
	bindFlag(v, "addr", flags.Lookup("addr"))
	bindFlag(v, "static", flags.Lookup("static"))
	bindFlag(v, "log.level", flags.Lookup("log-level"))
	bindFlag(v, "log.format", flags.Lookup("log-format"))
	bindFlag(v, "ice_servers", flags.Lookup("ice-server"))

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start streaming (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(v)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "metrics",
		Short: "Print the geometry of the captured display",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := capture.ResolveMetrics(capture.ScreenSource{})
			if err != nil {
				return err
			}
			fmt.Printf("primary display: %s (stream %dx%d)\n",
				color.CyanString("%dx%d", m.Width, m.Height), m.Width/2, m.Height/2)
			return nil
		},
	})

	return root
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func runServe(v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	config.Watch(v, func(c config.Config) {
		if err := logging.SetLevel(c.LogLevel); err != nil {
			log.WithError(err).Warn("ignoring log level from config file")
		}
	})

	src := capture.ScreenSource{}
	metrics, err := capture.ResolveMetrics(src)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"width": metrics.Width, "height": metrics.Height}).Info("host display resolved")

	registry := clients.NewRegistry()
	dispatcher := input.NewDispatcher(input.NewMapper(metrics), hostinput.New())
	peers := rtc.NewManager(cfg.ICEServers, dispatcher.Dispatch)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go capture.NewLoop(src, registry).Run(ctx)

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: server.New(server.Config{
			Registry:   registry,
			Dispatcher: dispatcher,
			Peers:      peers,
			Metrics:    metrics,
			StaticDir:  cfg.StaticDir,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.Addr).Info("http server started")
		fmt.Printf("Viewer page: %s\n", color.CyanString("http://%s/", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "listen")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	registry.Close()
	peers.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown error")
	}
	return nil
}
