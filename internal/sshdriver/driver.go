package sshdriver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mknsr/hidori/internal/driver"
	"github.com/mknsr/hidori/internal/paths"
)

const executorPathEnvVar = "HIDORI_EXECUTOR_PATH"

// resolveExecutorBinaryPath finds the hidori-executor binary to stage:
// HIDORI_EXECUTOR_PATH if set, otherwise a sibling of the running binary.
func resolveExecutorBinaryPath() (string, error) {
	if p := os.Getenv(executorPathEnvVar); p != "" {
		return p, nil
	}
	self, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve own executable path: %w", err)
	}
	return filepath.Join(filepath.Dir(self), "hidori-executor"), nil
}

// Driver is the reference driver, staging exchanges onto a single SSH
// target. Grounded in original_source/.../drivers/ssh.py.
type Driver struct {
	target string
	user   string
	port   string
	pool   *clientPool
}

var _ driver.Driver = (*Driver)(nil)

// New constructs a Driver from its already-validated configuration map
// (target, user, port), as produced by ConfigSchema via driver.Registry.Create.
func New(config map[string]any) (driver.Driver, error) {
	target, _ := config["target"].(string)
	user, _ := config["user"].(string)
	port, _ := config["port"].(string)

	return &Driver{
		target: target,
		user:   user,
		port:   port,
		pool:   newClientPool(target, user, port),
	}, nil
}

func (d *Driver) User() string { return d.user }

func (d *Driver) TargetID() string {
	return fmt.Sprintf("%s-at-%s", d.user, strings.ReplaceAll(d.target, ":", "_"))
}

func (d *Driver) PreparePipeline(ctx context.Context, src driver.PrepareSource) (*driver.Exchange, error) {
	return d.prepare(ctx, paths.KindPipeline, src)
}

func (d *Driver) PrepareCall(ctx context.Context, src driver.PrepareSource) (*driver.Exchange, error) {
	return d.prepare(ctx, paths.KindCall, src)
}

func (d *Driver) prepare(ctx context.Context, kind paths.Kind, src driver.PrepareSource) (*driver.Exchange, error) {
	exchangeID, err := driver.NewExchangeID()
	if err != nil {
		return nil, err
	}

	localPath, err := paths.ExchangeDir(kind, d.TargetID(), exchangeID)
	if err != nil {
		return nil, err
	}

	executorPath, err := resolveExecutorBinaryPath()
	if err != nil {
		return nil, err
	}

	if err := driver.StageDir(localPath, src.Steps, executorPath); err != nil {
		return nil, err
	}

	return &driver.Exchange{
		ID:        exchangeID,
		LocalPath: localPath,
		Transport: newTransport(d.pool),
	}, nil
}

func (d *Driver) Finalize(ctx context.Context, exchange *driver.Exchange) error {
	msgs, err := exchange.Transport.Push(ctx, exchange.ID, exchange.LocalPath)
	exchange.Messages = append(exchange.Messages, msgs...)
	return err
}

func (d *Driver) InvokeExecutor(ctx context.Context, exchange *driver.Exchange, taskID string) error {
	msgs, err := exchange.Transport.Invoke(ctx, exchange.ID, "executor", []string{taskID})
	exchange.Messages = append(exchange.Messages, msgs...)
	return err
}

// Close releases every SSH connection the driver opened across exchanges.
func (d *Driver) Close() {
	d.pool.closeAll()
}
