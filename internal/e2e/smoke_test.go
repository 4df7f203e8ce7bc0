package e2e

import (
	"bytes"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runKiln(t, binaryPath, home, "license", "activate", "D3V-K3Y-1313", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, `"tier": "Kiln Forge"`)

	stdout, stderr, err = runKiln(t, binaryPath, home, "license", "show")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Developer Mode")
}

func TestServeSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)
	addr := freeAddr(t)

	cmd := exec.Command(binaryPath, "serve", "--addr", addr)
	cmd.Env = kilnEnv(home)
	cmd.Dir = home
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
	})

	base := "http://" + addr
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 50*time.Millisecond, "stderr: %s", stderr.String())

	tokenPath := filepath.Join(home, "data", "serve.token")
	var token string
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(tokenPath)
		token = strings.TrimSpace(string(data))
		return err == nil && token != ""
	}, 10*time.Second, 50*time.Millisecond)

	resp, err := http.Post(base+"/bridge/load-saved-license", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := postBridge(t, base, token, "validate-license", `["D3V-K3Y-1313"]`)
	assert.Contains(t, body, `"dev":true`)

	body = postBridge(t, base, token, "load-saved-license", "")
	assert.Contains(t, body, `"tier":"Kiln Forge"`)

	body = postBridge(t, base, token, "clear-saved-license", "")
	assert.JSONEq(t, `{"success":true}`, body)

	require.NoError(t, cmd.Process.Signal(syscall.SIGTERM))
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		require.NoError(t, err, "stderr: %s", stderr.String())
	case <-time.After(10 * time.Second):
		t.Fatal("kiln serve did not stop")
	}

	_, err = os.Stat(tokenPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func postBridge(t *testing.T, base, token, operation, args string) string {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, base+"/bridge/"+operation, strings.NewReader(args))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	return string(data)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "kiln-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/kiln")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build kiln binary: %s", string(output))
	return binaryPath
}

func runKiln(t *testing.T, binaryPath, home string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = kilnEnv(home)
	cmd.Dir = home

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func kilnEnv(home string) []string {
	return append(os.Environ(),
		"HOME="+home,
		"KILN_DATA_DIR="+filepath.Join(home, "data"),
		"KILN_SECRETS_BACKEND=file",
		"KILN_LICENSE_DEV_MODE=true",
		"KILN_API_BASE_URL=http://127.0.0.1:1",
	)
}

func freeAddr(t *testing.T) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())
	return addr
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
