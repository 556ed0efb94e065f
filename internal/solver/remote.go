package solver

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// RemoteConfig holds SSH connection details for a solver on another host
type RemoteConfig struct {
	Host string
	Port int
	User string
	// PrivateKey is PEM key material; Password is used when empty
	PrivateKey []byte
	Password   string
	// Binary is the solver executable on the remote host
	Binary string
	// WorkDir is the remote scratch directory for job files
	WorkDir string
	Timeout time.Duration
}

// RemoteEngine drives the solver binary over SSH: the repaired input is
// streamed up, the solver runs remotely, and the report is streamed back.
type RemoteEngine struct {
	config RemoteConfig
}

// NewRemoteEngine creates an engine that solves on a remote host
func NewRemoteEngine(config RemoteConfig) *RemoteEngine {
	if config.Port == 0 {
		config.Port = 22
	}
	if config.Binary == "" {
		config.Binary = "runepanet"
	}
	if config.WorkDir == "" {
		config.WorkDir = "/tmp"
	}
	if config.Timeout <= 0 {
		config.Timeout = 120 * time.Second
	}
	return &RemoteEngine{config: config}
}

// Name returns the engine identifier
func (e *RemoteEngine) Name() string {
	return "ssh:" + e.config.Host
}

// Solve uploads the input, runs the solver remotely, and downloads the
// report to job.ReportPath.
func (e *RemoteEngine) Solve(ctx context.Context, job Job) error {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	client, err := e.connect(ctx)
	if err != nil {
		return fmt.Errorf("solver host %s: %w", e.config.Host, err)
	}
	defer client.Close()

	// Tear the connection down if the context expires mid-solve
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			client.Close()
		case <-done:
		}
	}()

	remoteIn := path.Join(e.config.WorkDir, filepath.Base(job.InputPath))
	remoteRpt := path.Join(e.config.WorkDir, filepath.Base(job.ReportPath))
	remoteOut := path.Join(e.config.WorkDir, filepath.Base(job.OutputPath))

	input, err := os.ReadFile(job.InputPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	if err := e.upload(client, remoteIn, input); err != nil {
		return fmt.Errorf("upload input: %w", err)
	}

	if out, err := e.run(client, fmt.Sprintf("%s %s %s %s",
		e.config.Binary, shellQuote(remoteIn), shellQuote(remoteRpt), shellQuote(remoteOut))); err != nil {
		if msg := string(bytes.TrimSpace(out)); msg != "" {
			return fmt.Errorf("solver %s rejected %s: %s: %w", e.Name(), job.InputPath, msg, err)
		}
		return fmt.Errorf("solver %s failed on %s: %w", e.Name(), job.InputPath, err)
	}

	report, err := e.run(client, "cat "+shellQuote(remoteRpt))
	if err != nil {
		return fmt.Errorf("fetch report: %w", err)
	}
	if err := os.WriteFile(job.ReportPath, report, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	// Remote scratch files are best-effort cleanup
	if _, err := e.run(client, fmt.Sprintf("rm -f %s %s %s",
		shellQuote(remoteIn), shellQuote(remoteRpt), shellQuote(remoteOut))); err != nil {
		log.Printf("Remote cleanup failed on %s: %v", e.config.Host, err)
	}

	return nil
}

// connect establishes the SSH connection, key auth preferred
func (e *RemoteEngine) connect(ctx context.Context) (*ssh.Client, error) {
	sshConfig, err := e.buildSSHConfig()
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(e.config.Host, fmt.Sprintf("%d", e.config.Port))

	dialer := &net.Dialer{Timeout: e.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to dial: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, sshConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to establish SSH connection: %w", err)
	}

	return ssh.NewClient(sshConn, chans, reqs), nil
}

func (e *RemoteEngine) buildSSHConfig() (*ssh.ClientConfig, error) {
	if e.config.User == "" {
		return nil, fmt.Errorf("remote solver user not configured")
	}

	var auth []ssh.AuthMethod
	if len(e.config.PrivateKey) > 0 {
		signer, err := ssh.ParsePrivateKey(e.config.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key: %w", err)
		}
		auth = append(auth, ssh.PublicKeys(signer))
	} else if e.config.Password != "" {
		auth = append(auth, ssh.Password(e.config.Password))
	} else {
		return nil, fmt.Errorf("remote solver needs a key or password")
	}

	return &ssh.ClientConfig{
		User: e.config.User,
		Auth: auth,
		// Solver hosts are operator-controlled lab machines
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         e.config.Timeout,
	}, nil
}

// upload writes data to a remote path by streaming through a shell
func (e *RemoteEngine) upload(client *ssh.Client, remotePath string, data []byte) error {
	session, err := client.NewSession()
	if err != nil {
		return err
	}
	defer session.Close()

	session.Stdin = bytes.NewReader(data)
	return session.Run("cat > " + shellQuote(remotePath))
}

// run executes a remote command and returns its combined output
func (e *RemoteEngine) run(client *ssh.Client, cmd string) ([]byte, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	return session.CombinedOutput(cmd)
}

// shellQuote single-quotes a path for the remote shell
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
