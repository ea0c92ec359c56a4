// If you are AI: This file provides helper functions for building, starting and managing server processes in tests.

package itest

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"testing"
	"time"

	"vodflv/internal/core/protocol/flv/flvtest"
)

// instance is a running vodflv process.
type instance struct {
	cmd        *exec.Cmd
	healthPort int
	httpPort   int
}

// mediaURL returns an absolute URL on the media listener.
func (i *instance) mediaURL(path string) string {
	return fmt.Sprintf("http://localhost:%d%s", i.httpPort, path)
}

// buildBinary compiles cmd/vodflv into a temporary directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test")
	}
	binPath := filepath.Join(t.TempDir(), "vodflv")
	out, err := exec.Command("go", "build", "-o", binPath, "../../cmd/vodflv").CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}
	return binPath
}

// findFreePort asks the kernel for an unused TCP port.
func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("Failed to find free port: %v", err)
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port
}

// writeFixture writes a generated FLV file into dir.
func writeFixture(t *testing.T, dir, name string, opts flvtest.Options) *flvtest.File {
	t.Helper()
	file := flvtest.Build(opts)
	if err := os.WriteFile(filepath.Join(dir, name), file.Data, 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return file
}

// startServer runs the binary with a time-mode /vod location and a
// byte-mode /raw location, both rooted at root.
// The process receives SIGINT when the test finishes.
func startServer(t *testing.T, binPath, root string) *instance {
	t.Helper()
	inst := &instance{healthPort: findFreePort(t), httpPort: findFreePort(t)}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	configContent := `server:
  health_port: ` + strconv.Itoa(inst.healthPort) + `
  http_port: ` + strconv.Itoa(inst.httpPort) + `
  shutdown_timeout: 2s
locations:
  - prefix: /vod
    root: ` + root + `
    mode: time
  - prefix: /raw
    root: ` + root + `
    mode: byte
log:
  level: warn
`
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	inst.cmd = exec.CommandContext(ctx, binPath, "serve", "--config", configPath)
	inst.cmd.Stdout = os.Stdout
	inst.cmd.Stderr = os.Stderr
	if err := inst.cmd.Start(); err != nil {
		cancel()
		t.Fatalf("Failed to start server: %v", err)
	}
	t.Cleanup(func() {
		inst.cmd.Process.Signal(syscall.SIGINT)
		inst.cmd.Wait()
		cancel()
	})

	if err := WaitForHealth(inst.healthPort, 5*time.Second); err != nil {
		t.Fatalf("Health endpoint not available: %v", err)
	}
	return inst
}

// WaitForHealth waits for the health endpoint to become available.
// Returns an error if the endpoint is not available within the timeout.
func WaitForHealth(port int, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := fmt.Sprintf("http://localhost:%d/healthz", port)

	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("health endpoint not available after %v", timeout)
}
