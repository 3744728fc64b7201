// Command hidori-pipeline runs a pipeline TOML document against every
// destination it names, per spec.md §6. Grounded in
// original_source/src/hidori_cli/commands/pipeline_run.py, adapted to
// cobra the way cmd/streamy/root.go wires its subcommands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mknsr/hidori/internal/driver"
	"github.com/mknsr/hidori/internal/modules"
	"github.com/mknsr/hidori/internal/obslog"
	"github.com/mknsr/hidori/internal/pipelinegroup"
	"github.com/mknsr/hidori/internal/sshdriver"
)

var log = obslog.New(obslog.Options{Level: "info", HumanReadable: true})

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var errPipelineFailed = errors.New("pipeline group completed with a failed pipeline")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errPipelineFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "hidori-pipeline",
		Short:         "Run declarative pipelines against fleets of targets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hidori-pipeline %s (%s, built %s)\n", version, commit, date)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <path.toml>",
		Short: "Run a pipeline document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, args[0])
		},
	}
}

func runPipeline(cmd *cobra.Command, path string) error {
	runLog := log.WithFields(map[string]any{"pipeline": path})
	runLog.Info("loading pipeline document")

	drivers := driver.NewRegistry()
	drivers.Register(sshdriver.Name, sshdriver.ConfigSchema(), sshdriver.Defaults(), sshdriver.New)

	moduleRegistry, err := modules.Registry()
	if err != nil {
		runLog.Error(err, "module registry setup failed")
		return err
	}

	group, err := pipelinegroup.Load(path, drivers, moduleRegistry, cmd.OutOrStdout())
	if err != nil {
		runLog.Error(err, "failed to load pipeline document")
		return err
	}

	runLog.Info("running pipeline group")
	if err := group.Run(cmd.Context()); err != nil {
		runLog.Error(err, "pipeline group run aborted")
		return err
	}

	if group.HasFailed() {
		runLog.Warn("pipeline group completed with at least one failed pipeline")
		return errPipelineFailed
	}
	runLog.Info("pipeline group completed")
	return nil
}
