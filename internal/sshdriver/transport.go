package sshdriver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/sftp"

	"github.com/mknsr/hidori/internal/message"
	"github.com/mknsr/hidori/internal/paths"
	"github.com/mknsr/hidori/internal/transport"
)

// Transport pushes a staging directory over SFTP and invokes the remote
// executor over an SSH exec session, holding one *ssh.Client per exchange
// via pool. Grounded in original_source/.../transports/ssh.py, replacing
// its scp/ssh subprocess invocations with the x/crypto/ssh and pkg/sftp
// Go libraries (SPEC_FULL.md §3).
type Transport struct {
	pool *clientPool
}

var _ transport.Transport = (*Transport)(nil)

func newTransport(pool *clientPool) *Transport {
	return &Transport{pool: pool}
}

// Push uploads every regular file under local to dest on the target,
// recreating local's directory structure, per spec.md §4.4 step 4.
func (t *Transport) Push(ctx context.Context, exchangeID, local string) ([]message.Message, error) {
	client, err := t.pool.get(exchangeID)
	if err != nil {
		return transport.ParseOutput(fmt.Sprintf("ssh push: %v", err), Name, false), nil
	}

	sc, err := sftp.NewClient(client)
	if err != nil {
		return transport.ParseOutput(err.Error(), Name, false), nil
	}
	defer sc.Close()

	dest := paths.RemoteStagingDir(exchangeID)
	if err := sc.MkdirAll(dest); err != nil {
		return transport.ParseOutput(err.Error(), Name, false), nil
	}

	var failures []string
	err = filepath.Walk(local, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(local, path)
		if err != nil {
			return err
		}
		remotePath := filepath.ToSlash(filepath.Join(dest, rel))

		if info.IsDir() {
			return sc.MkdirAll(remotePath)
		}
		return copyToRemote(sc, path, remotePath, info.Mode())
	})
	if err != nil {
		failures = append(failures, err.Error())
	}

	if len(failures) > 0 {
		return transport.ParseOutput(strings.Join(failures, "\n"), Name, false), nil
	}
	return nil, nil
}

func copyToRemote(sc *sftp.Client, localPath, remotePath string, mode os.FileMode) error {
	in, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := sc.Create(remotePath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return sc.Chmod(remotePath, mode)
}

// Invoke runs <remote-staging-root>/program (per spec.md §4.5, program is
// the bare name "executor", resolved here against the exchange's remote
// staging directory) with args, in an SSH exec session, and parses its
// stdout (or, when the command fails and stderr is non-empty, its stderr)
// per the exit-handling rule.
func (t *Transport) Invoke(ctx context.Context, exchangeID, program string, args []string) ([]message.Message, error) {
	client, err := t.pool.get(exchangeID)
	if err != nil {
		return transport.ParseOutput(fmt.Sprintf("ssh invoke: %v", err), Name, false), nil
	}

	session, err := client.NewSession()
	if err != nil {
		return transport.ParseOutput(err.Error(), Name, false), nil
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	remoteProgram := paths.RemoteStagingDir(exchangeID) + "/" + program
	cmd := strings.Join(append([]string{remoteProgram}, args...), " ")
	runErr := session.Run(cmd)

	ok := runErr == nil
	output := stdout.String()
	if !ok && stderr.Len() > 0 {
		output = stderr.String()
	}

	return transport.ParseOutput(output, Name, ok), nil
}
