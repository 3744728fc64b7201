package sshdriver

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"sync"

	sshagent "github.com/xanzy/ssh-agent"
	"github.com/kevinburke/ssh_config"
	"github.com/skeema/knownhosts"
	"golang.org/x/crypto/ssh"
)

// clientPool lazily builds and holds one *ssh.Client per exchange, standing
// in for the source's ControlMaster/ControlPersist subprocess reuse (see
// SPEC_FULL.md §4): the pool hands the same connection to both Push and
// Invoke for a given exchange id instead of paying a fresh handshake twice.
type clientPool struct {
	mu      sync.Mutex
	clients map[string]*ssh.Client

	host string
	user string
	port string
}

func newClientPool(host, user, port string) *clientPool {
	return &clientPool{
		clients: make(map[string]*ssh.Client),
		host:    host,
		user:    user,
		port:    port,
	}
}

func (p *clientPool) get(exchangeID string) (*ssh.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.clients[exchangeID]; ok {
		return c, nil
	}

	cfg, err := clientConfig(p.user, p.host)
	if err != nil {
		return nil, fmt.Errorf("build ssh client config: %w", err)
	}

	addr := net.JoinHostPort(resolveAlias(p.host, "hostname", p.host), resolvePort(p.host, p.port))
	c, err := ssh.Dial("tcp", addr, cfg)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	p.clients[exchangeID] = c
	return c, nil
}

func (p *clientPool) closeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, c := range p.clients {
		c.Close()
		delete(p.clients, id)
	}
}

// resolveAlias consults the user's ~/.ssh/config (via kevinburke/ssh_config)
// for a HostName override of a configured Host alias, falling back to the
// literal host given in the driver's own config.
func resolveAlias(host, key, fallback string) string {
	cfg := userSSHConfig()
	if cfg == nil {
		return fallback
	}
	v, err := cfg.Get(host, key)
	if err != nil || v == "" {
		return fallback
	}
	return v
}

// resolvePort applies the same ~/.ssh/config lookup for a Port override,
// defaulting to the driver-configured port (itself already defaulted to
// "22" by Defaults, merged in by driver.Registry.Create).
func resolvePort(host, fallback string) string {
	cfg := userSSHConfig()
	if cfg == nil {
		return fallback
	}
	v, err := cfg.Get(host, "port")
	if err != nil || v == "" {
		return fallback
	}
	if _, err := strconv.Atoi(v); err != nil {
		return fallback
	}
	return v
}

func userSSHConfig() *ssh_config.Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	f, err := os.Open(filepath.Join(home, ".ssh", "config"))
	if err != nil {
		return nil
	}
	defer f.Close()

	cfg, err := ssh_config.Decode(f)
	if err != nil {
		return nil
	}
	return cfg
}

// clientConfig resolves authentication the way an interactive ssh(1) client
// would: an ssh-agent's keys if one is reachable, followed by the user's
// default private key files, and verifies host keys against
// ~/.ssh/known_hosts.
func clientConfig(sshUser, host string) (*ssh.ClientConfig, error) {
	authMethods, err := authMethods()
	if err != nil {
		return nil, err
	}
	if sshUser == "" {
		if u, err := user.Current(); err == nil {
			sshUser = u.Username
		}
	}

	hostKeyCallback, err := hostKeyCallback()
	if err != nil {
		return nil, err
	}

	return &ssh.ClientConfig{
		User:            sshUser,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
	}, nil
}

func authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if agent, _, err := sshagent.New(); err == nil && agent != nil {
		signers, err := agent.Signers()
		if err == nil && len(signers) > 0 {
			methods = append(methods, ssh.PublicKeysCallback(agent.Signers))
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		for _, name := range []string{"id_ed25519", "id_rsa", "id_ecdsa"} {
			key, err := os.ReadFile(filepath.Join(home, ".ssh", name))
			if err != nil {
				continue
			}
			signer, err := ssh.ParsePrivateKey(key)
			if err != nil {
				continue
			}
			methods = append(methods, ssh.PublicKeys(signer))
		}
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no ssh authentication method available (no agent, no usable key in ~/.ssh)")
	}
	return methods, nil
}

func hostKeyCallback() (ssh.HostKeyCallback, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory for known_hosts: %w", err)
	}
	khPath := filepath.Join(home, ".ssh", "known_hosts")
	if _, err := os.Stat(khPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("known_hosts file not found at %s", khPath)
		}
		return nil, err
	}

	db, err := knownhosts.New(khPath)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts: %w", err)
	}
	return db.HostKeyCallback(), nil
}
