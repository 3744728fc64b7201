package driver_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mknsr/hidori/internal/driver"
	"github.com/mknsr/hidori/internal/schema"
)

type stubDriver struct {
	config map[string]any
}

func (d *stubDriver) User() string     { return d.config["user"].(string) }
func (d *stubDriver) TargetID() string { return "stub" }
func (d *stubDriver) PreparePipeline(_ context.Context, _ driver.PrepareSource) (*driver.Exchange, error) {
	return &driver.Exchange{}, nil
}
func (d *stubDriver) PrepareCall(_ context.Context, _ driver.PrepareSource) (*driver.Exchange, error) {
	return &driver.Exchange{}, nil
}
func (d *stubDriver) Finalize(_ context.Context, _ *driver.Exchange) error        { return nil }
func (d *stubDriver) InvokeExecutor(_ context.Context, _ *driver.Exchange, _ string) error { return nil }

func stubSchema() *schema.Schema {
	return schema.New().
		Field("user", schema.Text()).
		Field("port", schema.Optional(schema.Text())).
		MustBuild()
}

func TestRegistry_CreateMergesDefaultsBeforeValidation(t *testing.T) {
	r := driver.NewRegistry()
	r.Register("ssh", stubSchema(), map[string]any{"port": "22"}, func(config map[string]any) (driver.Driver, error) {
		return &stubDriver{config: config}, nil
	})

	drv, err := r.Create(map[string]any{"driver": "ssh", "user": "ops"})

	require.NoError(t, err)
	stub := drv.(*stubDriver)
	assert.Equal(t, "22", stub.config["port"])
}

func TestRegistry_CreateDefaultsNeverOverrideSuppliedValue(t *testing.T) {
	r := driver.NewRegistry()
	r.Register("ssh", stubSchema(), map[string]any{"port": "22"}, func(config map[string]any) (driver.Driver, error) {
		return &stubDriver{config: config}, nil
	})

	drv, err := r.Create(map[string]any{"driver": "ssh", "user": "ops", "port": "2222"})

	require.NoError(t, err)
	stub := drv.(*stubDriver)
	assert.Equal(t, "2222", stub.config["port"])
}

func TestRegistry_CreateDefaultsToSSHDriverWhenUnspecified(t *testing.T) {
	r := driver.NewRegistry()
	called := false
	r.Register("ssh", stubSchema(), nil, func(config map[string]any) (driver.Driver, error) {
		called = true
		return &stubDriver{config: config}, nil
	})

	_, err := r.Create(map[string]any{"user": "ops"})

	require.NoError(t, err)
	assert.True(t, called)
}

func TestRegistry_CreateUnknownDriverErrors(t *testing.T) {
	r := driver.NewRegistry()

	_, err := r.Create(map[string]any{"driver": "unknown", "user": "ops"})

	require.Error(t, err)
}

func TestRegistry_CreateInvalidConfigErrors(t *testing.T) {
	r := driver.NewRegistry()
	r.Register("ssh", stubSchema(), nil, func(config map[string]any) (driver.Driver, error) {
		return &stubDriver{config: config}, nil
	})

	_, err := r.Create(map[string]any{"driver": "ssh"})

	require.Error(t, err)
}

func TestExchange_HasErrors(t *testing.T) {
	e := &driver.Exchange{}
	assert.False(t, e.HasErrors())
}
