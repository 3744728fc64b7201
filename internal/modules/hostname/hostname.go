// Package hostname implements the `hostname` reference module named in
// spec.md §1 and §9. Its check-then-mutate shape is grounded in
// original_source/src/hidori_core/modules/hostname.py, itself mirroring the
// check-before-mutate pattern original_source's apt.py uses.
package hostname

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/module"
	"github.com/mknsr/hidori/internal/schema"
)

const Name = "hostname"

const hostnameFile = "/etc/hostname"

// New builds the hostname module: schema {name: text}. It reads the
// current hostname, leaves the system untouched if it already matches, and
// reports affected otherwise.
func New() *module.Module {
	hostnameSchema := schema.New().
		Field("name", schema.Text()).
		MustBuild()

	return &module.Module{
		Name:   Name,
		Schema: hostnameSchema,
		Execute: func(_ context.Context, validated map[string]any, messenger *message.Messenger) error {
			desired, _ := validated["name"].(string)

			current, err := readHostname()
			if err != nil {
				return fmt.Errorf("read current hostname: %w", err)
			}

			if current == desired {
				messenger.QueueSuccess(fmt.Sprintf("hostname is already %q", desired))
				return nil
			}

			if err := writeHostname(desired); err != nil {
				return fmt.Errorf("write hostname %q: %w", desired, err)
			}

			messenger.QueueAffected(fmt.Sprintf("hostname changed from %q to %q", current, desired))
			return nil
		},
	}
}

func readHostname() (string, error) {
	data, err := os.ReadFile(hostnameFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func writeHostname(name string) error {
	return os.WriteFile(hostnameFile, []byte(name+"\n"), 0o644)
}
