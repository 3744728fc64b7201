// Package sshdriver implements the reference driver and transport: SSH
// with a persistent connection held per exchange (the Go-native
// equivalent of the source's ControlMaster/ControlPersist reuse, see
// spec.md §4.5 and SPEC_FULL.md §4). Grounded in
// original_source/.../drivers/ssh.py and transports/ssh.py.
package sshdriver

import "github.com/mknsr/hidori/internal/schema"

// Name is the driver name used in a target's `driver = "ssh"` TOML key,
// and the default when the key is omitted.
const Name = "ssh"

// ConfigSchema validates an ssh driver's configuration: spec.md §4.5
// {target: text, user: text, port: optional<text> default "22"}. The "22"
// default itself is filled in by Defaults, merged ahead of validation by
// driver.Registry.Create, rather than declared here as a schema default —
// giving dario.cat/mergo (SPEC_FULL.md §3) a concrete home.
func ConfigSchema() *schema.Schema {
	return schema.New().
		Field("target", schema.Text()).
		Field("user", schema.Text()).
		Field("port", schema.Optional(schema.Text())).
		MustBuild()
}

// Defaults returns the configuration values merged in ahead of validation
// when the caller's config omits them.
func Defaults() map[string]any {
	return map[string]any{"port": "22"}
}
