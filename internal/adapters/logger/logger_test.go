package logger_test

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/wasmc/internal/adapters/logger"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/zerr"
)

// captureStderr captures output written to os.Stderr during the execution of fn.
func captureStderr(fn func()) (string, error) {
	originalStderr := os.Stderr
	defer func() { os.Stderr = originalStderr }()

	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	os.Stderr = w

	done := make(chan string, 1)
	go func() {
		buf, _ := io.ReadAll(r)
		done <- string(buf)
	}()

	fn()

	if err := w.Close(); err != nil {
		return "", err
	}
	output := <-done
	return output, r.Close()
}

func TestLogger_Info(t *testing.T) {
	output, err := captureStderr(func() {
		// Created inside the capture so it binds the redirected stderr.
		logger.New().Info("some message", "key", "value")
	})
	if err != nil {
		t.Fatalf("Failed to capture stderr: %v", err)
	}

	assert.Contains(t, output, "some message")
	assert.Contains(t, output, "INFO")
	assert.Contains(t, output, "key=value")
}

func TestLogger_Warn(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf, domain.LogLevelInfo)

	lg.Warn("some warning")

	assert.Contains(t, buf.String(), "some warning")
	assert.Contains(t, buf.String(), "WARN")
}

func TestLogger_ErrorIncludesMetadata(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf, domain.LogLevelInfo)

	lg.Error(zerr.With(zerr.Wrap(os.ErrPermission, "open failed"), "path", "/tmp/x"))

	out := buf.String()
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "open failed: permission denied")
	assert.Contains(t, out, "path=/tmp/x")
}

func TestLogger_ErrorNil(t *testing.T) {
	var buf bytes.Buffer
	logger.NewWithWriter(&buf, domain.LogLevelInfo).Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf, domain.LogLevelWarn)

	lg.Debug("hidden debug")
	lg.Info("hidden info")
	assert.Empty(t, buf.String())

	lg.SetLevel(domain.LogLevelDebug)
	lg.Debug("visible debug")
	assert.Contains(t, buf.String(), "visible debug")
}

func TestLogger_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	lg := logger.NewWithWriter(&first, domain.LogLevelInfo)

	lg.SetOutput(&second)
	lg.Info("redirected")

	assert.Empty(t, first.String())
	assert.True(t, strings.Contains(second.String(), "redirected"))
}
