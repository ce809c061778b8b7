package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/neuronsfund/matchedfunding/internal/audit"
	"github.com/neuronsfund/matchedfunding/internal/config"
	"github.com/neuronsfund/matchedfunding/internal/fund"
	"github.com/neuronsfund/matchedfunding/internal/logging"
	"github.com/neuronsfund/matchedfunding/internal/neuronstore"
	"github.com/neuronsfund/matchedfunding/internal/version"
)

const (
	programName = "fundengine"
)

var cmdlineFlags struct {
	configFile string
	version    bool
	swapId     string
	directE8s  uint64
}

func main() {
	flag.StringVar(&cmdlineFlags.configFile, "config", "", "path to config file to load")
	flag.BoolVar(&cmdlineFlags.version, "version", false, "show version")
	flag.StringVar(&cmdlineFlags.swapId, "swap-id", "demo", "swap id to run the matched funding lifecycle for")
	flag.Uint64Var(&cmdlineFlags.directE8s, "direct-e8s", 0, "realized direct participation, in e8s, to finalize against (0 = skip finalization)")
	flag.Parse()

	if cmdlineFlags.version {
		fmt.Printf("%s %s\n", programName, version.GetVersionString())
		os.Exit(0)
	}

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, a ...any) {
		fmt.Printf(format+"\n", a...)
	})); err != nil {
		fmt.Printf("failed to set GOMAXPROCS: %s\n", err)
	}

	// Load config
	cfg, err := config.Load(cmdlineFlags.configFile)
	if err != nil {
		fmt.Printf("Failed to load config: %s\n", err)
		os.Exit(1)
	}

	// Configure logging
	logging.Configure()
	logger := logging.GetLogger()
	// Sync logger on exit
	defer func() {
		if err := logger.Sync(); err != nil {
			// We don't actually care about the error here, but we have to do something
			// to appease the linter
			return
		}
	}()

	// Start debug listener
	if cfg.Debug.ListenPort > 0 {
		logger.Infof("starting debug listener on %s:%d", cfg.Debug.ListenAddress, cfg.Debug.ListenPort)
		go func() {
			err := http.ListenAndServe(fmt.Sprintf("%s:%d", cfg.Debug.ListenAddress, cfg.Debug.ListenPort), nil)
			if err != nil {
				logger.Fatalf("failed to start debug listener: %s", err)
			}
		}()
	}

	store, err := neuronstore.Open(cfg.Storage.NeuronStoreDirectory, logger)
	if err != nil {
		logger.Fatalf("failed to open neuron store: %s", err)
	}
	defer store.Close()

	auditLog, err := audit.Open(cfg.Storage.AuditDirectory, logger)
	if err != nil {
		logger.Fatalf("failed to open audit log: %s", err)
	}
	defer auditLog.Close()

	if err := runLifecycle(context.Background(), cfg, store, auditLog, logger); err != nil {
		logger.Fatalf("lifecycle failed: %s", err)
	}
}

// runLifecycle demonstrates the full reserve -> draw -> finalize -> refund
// state machine against the store. It builds the participation from an empty
// neuron roster: neurons seeded in the store are not read, so every snapshot
// it records, draws and refunds is empty.
func runLifecycle(
	ctx context.Context,
	cfg *config.Config,
	store *neuronstore.Store,
	auditLog *audit.Log,
	logger interface {
		Infof(string, ...any)
	},
) error {
	limits := fund.SwapParticipationLimits{
		MinDirectParticipationIcpE8s: cfg.Fund.MinDirectParticipationIcpE8s,
		MaxDirectParticipationIcpE8s: cfg.Fund.MaxDirectParticipationIcpE8s,
		MinParticipantIcpE8s:         cfg.Fund.MinParticipantIcpE8s,
		MaxParticipantIcpE8s:         cfg.Fund.MaxParticipantIcpE8s,
	}

	initial, err := fund.New(
		limits,
		fund.SimpleLinearFunction{},
		nil,
		limits.MaxDirectParticipationIcpE8s,
	)
	if err != nil {
		return fmt.Errorf("constructing initial participation: %w", err)
	}
	logger.Infof(
		"swap %s: initial participation intended=%d max_swap=%d neurons=%d",
		cmdlineFlags.swapId, initial.IntendedE8s(), initial.MaxSwapE8s(), initial.Snapshot().Len(),
	)

	if err := auditLog.Record(cmdlineFlags.swapId, audit.StageInitial, initial.Snapshot()); err != nil {
		return fmt.Errorf("recording initial snapshot: %w", err)
	}
	if err := fund.Draw(ctx, store, initial.Snapshot()); err != nil {
		return fmt.Errorf("drawing initial snapshot: %w", err)
	}

	if cmdlineFlags.directE8s == 0 {
		return nil
	}

	final, err := initial.FromInitialParticipation(cmdlineFlags.directE8s)
	if err != nil {
		return fmt.Errorf("finalizing participation: %w", err)
	}
	if err := auditLog.Record(cmdlineFlags.swapId, audit.StageFinal, final.Snapshot()); err != nil {
		return fmt.Errorf("recording final snapshot: %w", err)
	}

	refund, err := fund.Diff(initial.Snapshot(), final.Snapshot())
	if err != nil {
		return fmt.Errorf("computing refund: %w", err)
	}
	if err := auditLog.Record(cmdlineFlags.swapId, audit.StageRefund, refund); err != nil {
		return fmt.Errorf("recording refund snapshot: %w", err)
	}
	if err := fund.Refund(ctx, store, refund); err != nil {
		return fmt.Errorf("applying refund: %w", err)
	}

	logger.Infof(
		"swap %s: finalized at direct=%d final_total=%d refund_total=%d",
		cmdlineFlags.swapId, cmdlineFlags.directE8s, final.Snapshot().TotalAmount(), refund.TotalAmount(),
	)
	return nil
}
