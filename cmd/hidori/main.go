// Command hidori is the one-shot CLI: it runs a single module call against
// one destination without a pipeline document, per spec.md §6's reference
// CLI surface. Grounded in original_source/src/hidori_cli/commands/hidori.py,
// adapted to cobra the way cmd/streamy/root.go wires its subcommands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mknsr/hidori/internal/driver"
	"github.com/mknsr/hidori/internal/obslog"
	"github.com/mknsr/hidori/internal/printer"
	"github.com/mknsr/hidori/internal/sshdriver"
)

var log = obslog.New(obslog.Options{Level: "info", HumanReadable: true})

// errCallFailed signals that the call ran to completion and already
// printed its messages, but one of them was error-typed. main() exits 1
// without printing anything further, matching spec.md §6's "exit code 0
// unless an error-typed message was emitted."
var errCallFailed = errors.New("call produced an error message")

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errCallFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hidori <user@host> <module> [key=value...]",
		Short:         "Run a single module against one destination",
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd.Context(), cmd, args[0], args[1], args[2:])
		},
	}

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hidori %s (%s, built %s)\n", version, commit, date)
			return nil
		},
	}
}

func runCall(ctx context.Context, cmd *cobra.Command, destination, moduleName string, extra []string) error {
	user, target, ok := strings.Cut(destination, "@")
	if !ok {
		return fmt.Errorf("destination %q must be in user@host form", destination)
	}

	callLog := log.WithFields(map[string]any{"target": target, "module": moduleName})
	callLog.Info("preparing call")

	extraData := make(map[string]any, len(extra))
	for _, entry := range extra {
		name, value, ok := strings.Cut(entry, "=")
		if !ok {
			return fmt.Errorf("module data %q must be in key=value form", entry)
		}
		extraData[name] = value
	}

	drivers := driver.NewRegistry()
	drivers.Register(sshdriver.Name, sshdriver.ConfigSchema(), sshdriver.Defaults(), sshdriver.New)

	drv, err := drivers.Create(map[string]any{"user": user, "target": target})
	if err != nil {
		callLog.Error(err, "driver creation failed")
		return err
	}

	taskID, err := driver.NewExchangeID()
	if err != nil {
		callLog.Error(err, "exchange id generation failed")
		return err
	}

	taskData := map[string]any{"module": moduleName}
	for k, v := range extraData {
		taskData[k] = v
	}

	exchange, err := drv.PrepareCall(ctx, driver.PrepareSource{
		TargetID: target,
		Steps:    []driver.StepSource{{TaskID: taskID, Name: "Call", Data: taskData}},
	})
	if err != nil {
		callLog.Error(err, "prepare call failed")
		return err
	}

	if err := drv.Finalize(ctx, exchange); err != nil {
		callLog.Error(err, "finalize (push) failed")
		return err
	}
	if err := drv.InvokeExecutor(ctx, exchange, taskID); err != nil {
		callLog.Error(err, "executor invocation failed")
		return err
	}

	p := printer.New(cmd.OutOrStdout(), drv.User(), target)
	p.PrintAll(exchange.Messages)
	p.PrintSummary()

	if exchange.HasErrors() {
		callLog.Warn("call completed with an error message")
		return errCallFailed
	}
	callLog.Info("call completed")
	return nil
}
