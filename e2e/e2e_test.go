//go:build e2e

package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var wasmcBinary string

func TestMain(m *testing.M) {
	tmpDir, err := os.MkdirTemp("", "wasmc-e2e-*")
	if err != nil {
		panic(err)
	}

	wasmcBinary = filepath.Join(tmpDir, "wasmc")

	//nolint:gosec // Building binary with static arguments, not user input
	cmd := exec.Command("go", "build", "-o", wasmcBinary, "./cmd/wasmc")
	cmd.Dir = ".."
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		panic("failed to build wasmc binary: " + err.Error())
	}

	exitCode := m.Run()

	_ = os.RemoveAll(tmpDir)

	os.Exit(exitCode)
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata",
		Setup: setupE2E,
	})
}

func setupE2E(env *testscript.Env) error {
	binDir := filepath.Dir(wasmcBinary)
	currentPath := env.Getenv("PATH")
	env.Setenv("PATH", binDir+string(os.PathListSeparator)+currentPath)

	homeDir := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	// Scripts must not see a registry or cache configured on the host.
	env.Setenv("WASMC_REGISTRY_URL", "")
	env.Setenv("WASMC_CACHE_DIR", filepath.Join(env.WorkDir, ".cache"))
	env.Setenv("WASMC_LOG_LEVEL", "warn")

	return nil
}
