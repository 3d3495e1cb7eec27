package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wasmc/internal/adapters/shell"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func script(body string) *domain.Compiler {
	return &domain.Compiler{
		Identifier: domain.CompilerRegistryPath,
		Image:      []byte("#!/bin/sh\n" + body + "\n"),
	}
}

func newProject(t *testing.T, ctrl *gomock.Controller) (*mocks.MockProject, string) {
	t.Helper()
	dir := t.TempDir()
	project := mocks.NewMockProject(ctrl)
	project.EXPECT().Dir().Return(dir).AnyTimes()
	return project, dir
}

func TestEngine_Compile_WritesArtifact(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	project, dir := newProject(t, ctrl)
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.SourceFileName), []byte("int main(){}"), 0o600))

	// Copies the source named by $1 to the path following -o.
	compiler := script(`cp "$1" "$3" && echo compiled`)
	engine := shell.NewEngine(filepath.Join(t.TempDir(), "bin"), nil, log)

	res, err := engine.Compile(context.Background(), compiler, project, domain.NewCompileRequest())
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, "compiled\n", res.Stdout)

	out, err := os.ReadFile(filepath.Join(dir, domain.ArtifactFileName))
	require.NoError(t, err)
	assert.Equal(t, "int main(){}", string(out))
}

func TestEngine_Compile_ReportsDiagnostics(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("user_code.c:1:1: error: expected ';'").Times(1)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	project, _ := newProject(t, ctrl)
	compiler := script(`echo "user_code.c:1:1: error: expected ';'" >&2; exit 1`)
	engine := shell.NewEngine(filepath.Join(t.TempDir(), "bin"), nil, log)

	res, err := engine.Compile(context.Background(), compiler, project, domain.NewCompileRequest())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "user_code.c:1:1: error: expected ';'\n", res.Stderr)
}

func TestEngine_Compile_LogsUnterminatedDiagnostic(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("first").Times(1)
	log.EXPECT().Debug("user_code.c:2:1: error: unterminated").Times(1)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	project, _ := newProject(t, ctrl)
	compiler := script(`printf 'first\nuser_code.c:2:1: error: unterminated' >&2; exit 1`)
	engine := shell.NewEngine(filepath.Join(t.TempDir(), "bin"), nil, log)

	res, err := engine.Compile(context.Background(), compiler, project, domain.NewCompileRequest())
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, "first\nuser_code.c:2:1: error: unterminated", res.Stderr)
}

func TestEngine_Compile_AppliesEnvironment(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	project, _ := newProject(t, ctrl)
	compiler := script(`printf '%s' "$CC_FLAGS"`)
	engine := shell.NewEngine(filepath.Join(t.TempDir(), "bin"), map[string]string{"CC_FLAGS": "-O2"}, log)

	res, err := engine.Compile(context.Background(), compiler, project, domain.NewCompileRequest())
	require.NoError(t, err)
	assert.Equal(t, "-O2", res.Stdout)
}

func TestEngine_Compile_MaterializesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("materialized compiler", gomock.Any()).Times(1)

	project, _ := newProject(t, ctrl)
	binDir := filepath.Join(t.TempDir(), "bin")
	engine := shell.NewEngine(binDir, nil, log)
	compiler := script("true")

	for range 3 {
		res, err := engine.Compile(context.Background(), compiler, project, domain.NewCompileRequest())
		require.NoError(t, err)
		assert.True(t, res.OK)
	}

	entries, err := os.ReadDir(binDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestEngine_Compile_Canceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any(), gomock.Any()).AnyTimes()

	project, _ := newProject(t, ctrl)
	engine := shell.NewEngine(filepath.Join(t.TempDir(), "bin"), nil, log)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Compile(ctx, script("sleep 5"), project, domain.NewCompileRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRewriteMount(t *testing.T) {
	assert.Equal(t, "/tmp/p", shell.RewriteMount("/project", "/tmp/p"))
	assert.Equal(t, "/tmp/p/user_code.c", shell.RewriteMount("/project/user_code.c", "/tmp/p"))
	assert.Equal(t, "-o", shell.RewriteMount("-o", "/tmp/p"))
	assert.Equal(t, "/projection", shell.RewriteMount("/projection", "/tmp/p"))
}

func TestResolveEnvironment(t *testing.T) {
	env := shell.ResolveEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/root", "CC=gcc"},
		map[string]string{"PATH": "/opt/clang/bin", "CC": "clang"},
	)

	assert.True(t, slices.Contains(env, "PATH=/opt/clang/bin"+string(os.PathListSeparator)+"/usr/bin"))
	assert.True(t, slices.Contains(env, "HOME=/root"))
	assert.True(t, slices.Contains(env, "CC=clang"))
	assert.Len(t, env, 3)
}
