// File: serve.go
// Title: scpid Serve Command
// Description: Builds the instrument from configuration, installs the demo
//              command set and serves it over the enabled transports until
//              interrupted.
// Version: v0.1.0
// Created: 2025-08-26
//
// Change History:
// - 2025-08-26 v0.1.0: Initial serve command

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stonerlab/goscpi/internal/instrument"
	"github.com/stonerlab/goscpi/internal/server"
	"github.com/stonerlab/goscpi/pkg/core/config"
	"github.com/stonerlab/goscpi/pkg/core/health"
	"github.com/stonerlab/goscpi/pkg/core/logging"
	"github.com/stonerlab/goscpi/pkg/core/version"
	"github.com/stonerlab/goscpi/pkg/scpi"
)

// tasksDegradedAbove is the pending-task count past which the health
// report turns degraded
const tasksDegradedAbove = 16

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the instrument daemon",
	Long: `Starts scpid with the configured transports.

With no --config flag the built-in defaults apply: TCP on 127.0.0.1:5025,
WebSocket disabled.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	level := logging.ParseLevel(cfg.General.LogLevel)
	if verbose {
		level = logging.LevelDebug
	}
	logger := logging.NewWithConfig(logging.Config{
		Level:  level,
		Format: logging.ParseFormat(cfg.General.LogFormat),
		Name:   "scpid",
	})

	inst, err := scpi.New(scpi.Options{
		Identity: scpi.Identity{
			Manufacturer: cfg.Instrument.Manufacturer,
			Model:        cfg.Instrument.Model,
			SerialNumber: cfg.Instrument.SerialNumber,
			Firmware:     cfg.Instrument.Firmware,
		},
		ErrorQueueDepth: cfg.Instrument.ErrorQueueDepth,
		Logger:          logger,
	})
	if err != nil {
		logger.Error("instrument setup failed", logging.Fields{"error": err.Error()})
		return err
	}

	device := instrument.New(instrument.Options{
		Instrument: inst,
		Logger:     logger.WithName("instrument"),
	})
	if err := device.Install(); err != nil {
		logger.Error("command set installation failed", logging.Fields{"error": err.Error()})
		return err
	}

	registry := health.NewRegistry("scpid", version.Daemon)
	registry.Register("tasks", func(ctx context.Context) health.CheckResult {
		pending := len(inst.Registry().Pending())
		result := health.CheckResult{
			Status:  health.StatusHealthy,
			Details: map[string]interface{}{"pending": pending},
		}
		if pending > tasksDegradedAbove {
			result.Status = health.StatusDegraded
			result.Message = "task backlog"
		}
		return result
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := server.New(server.Options{
		Instrument: inst,
		Config:     cfg.Server,
		Health:     registry,
		Logger:     logger.WithName("server"),
	})
	if err := srv.Start(ctx); err != nil {
		logger.Error("transport startup failed", logging.Fields{"error": err.Error()})
		return err
	}
	logger.Info("scpid running", logging.Fields{
		"version": version.Daemon,
		"scpi":    version.SCPI,
	})

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	return srv.Stop(stopCtx)
}
