//go:build e2e

package e2e

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// binaryServer is a dinacharya process started from the built binary.
type binaryServer struct {
	cmd     *exec.Cmd
	dataDir string
	address string
	apiKey  string
	logFile string
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("free port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

// startDinacharya launches `dinacharya serve` configured through the
// environment and waits for it to become healthy.
func startDinacharya(t *testing.T) *binaryServer {
	t.Helper()
	requireDinacharya(t)
	return launch(t, t.TempDir(), "dinacharya.log")
}

// restartDinacharya starts a new process on prev's data directory.
func restartDinacharya(t *testing.T, prev *binaryServer) *binaryServer {
	t.Helper()
	return launch(t, prev.dataDir, "dinacharya-restart.log")
}

func launch(t *testing.T, dataDir, logName string) *binaryServer {
	t.Helper()

	port := freePort(t)
	s := &binaryServer{
		dataDir: dataDir,
		address: fmt.Sprintf("127.0.0.1:%d", port),
		apiKey:  testAPIKey,
		logFile: filepath.Join(dataDir, logName),
	}

	cmd := exec.Command(dinacharyaBin, "serve")
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("DINACHARYA_PORT=%d", port),
		"DINACHARYA_DB_PATH="+filepath.Join(dataDir, "dinacharya.db"),
		"DINACHARYA_API_KEY="+s.apiKey,
		"DINACHARYA_CONFIG_PATH="+filepath.Join(dataDir, "nonexistent.yaml"),
		"DINACHARYA_ENV_FILE="+filepath.Join(dataDir, "nonexistent.env"),
		"DINACHARYA_PLANNER_PROVIDER=none",
		"DINACHARYA_BACKUP_DIR="+filepath.Join(dataDir, "backups"),
		"DINACHARYA_LOG_FORMAT=json",
	)

	lf, err := os.Create(s.logFile)
	if err != nil {
		t.Fatalf("create log file: %v", err)
	}
	cmd.Stdout = lf
	cmd.Stderr = lf

	if err := cmd.Start(); err != nil {
		lf.Close()
		t.Fatalf("start dinacharya: %v", err)
	}
	s.cmd = cmd

	t.Cleanup(func() {
		s.stop()
		lf.Close()
	})

	if err := s.waitHealthy(10 * time.Second); err != nil {
		logs, _ := os.ReadFile(s.logFile)
		t.Fatalf("dinacharya not healthy: %v\n%s", err, logs)
	}
	return s
}

func (s *binaryServer) stop() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Signal(os.Interrupt)
		_ = s.cmd.Wait()
	}
}

func (s *binaryServer) baseURL() string {
	return "http://" + s.address
}

func (s *binaryServer) do(t *testing.T, method, path string, body, out any) int {
	t.Helper()
	return request(t, s.baseURL(), s.apiKey, method, path, body, out)
}

func (s *binaryServer) waitHealthy(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	url := s.baseURL() + "/api/v1/health"

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
	return fmt.Errorf("not healthy after %s", timeout)
}
