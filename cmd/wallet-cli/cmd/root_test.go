package cmd

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// run 执行一次命令并返回标准输出
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	stdout := os.Stdout
	os.Stdout = w
	done := make(chan []byte)
	go func() {
		b, _ := io.ReadAll(r)
		done <- b
	}()

	rootCmd.SetArgs(append([]string{"--data-dir", dataDir, "--wallet", "cli"}, args...))
	runErr := rootCmd.Execute()

	w.Close()
	os.Stdout = stdout
	return string(<-done), runErr
}

func TestCLIWalletLifecycle(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MTH_WALLET_PASSWORD", "correct horse")
	t.Setenv("MTH_WALLET_KDF_ITERATIONS", "1000")

	out, err := run(t, dir, "import", "--mnemonic", testMnemonic)
	require.NoError(t, err)
	assert.Contains(t, out, "0x587bec2e2ea2354eade8a49c74df81b368b27e32")
	assert.FileExists(t, filepath.Join(dir, "cli.json"))

	_, err = run(t, dir, "add", "--mnemonic", testMnemonic)
	require.NoError(t, err)

	out, err = run(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "* [0] 0x587bec2e2ea2354eade8a49c74df81b368b27e32")
	assert.Contains(t, out, "  [1] 0x77945c2a933bf64d6bb0f03ce3d21392af8dd499  m/44'/55555'/0'/0/1")

	_, err = run(t, dir, "select", "1")
	require.NoError(t, err)

	out, err = run(t, dir, "sign", "0xdeadbeef")
	require.NoError(t, err)
	sig := regexp.MustCompile(`Signature\):\s+(0x[0-9a-f]{128})`).FindStringSubmatch(out)
	require.Len(t, sig, 2, out)

	out, err = run(t, dir, "verify", "0xdeadbeef", sig[1])
	require.NoError(t, err)
	assert.Contains(t, out, "签名有效")

	_, err = run(t, dir, "verify", "0xdeadbeee", sig[1])
	assert.Error(t, err)

	out, err = run(t, dir, "wallets")
	require.NoError(t, err)
	assert.Contains(t, out, "* cli")

	out, err = run(t, dir, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "账户数:     2")
	assert.Contains(t, out, "0x77945c2a933bf64d6bb0f03ce3d21392af8dd499")

	_, err = run(t, dir, "delete")
	assert.Error(t, err, "delete needs --yes")
	_, err = run(t, dir, "delete", "--yes")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "cli.json"))
}

func TestCLIMissingWallet(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MTH_WALLET_PASSWORD", "pw")

	_, err := run(t, dir, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestParseIndex(t *testing.T) {
	i, err := parseIndex("3")
	require.NoError(t, err)
	assert.Equal(t, 3, i)

	for _, bad := range []string{"-1", "x", ""} {
		_, err := parseIndex(bad)
		assert.Error(t, err, bad)
	}
}
