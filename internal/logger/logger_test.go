package logger

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetForTest(t *testing.T) {
	t.Helper()
	initMu.Lock()
	instance = newLogger(nil, nil)
	initMu.Unlock()
}

func TestLogRecordsEntriesWithAttributes(t *testing.T) {
	resetForTest(t)

	Log("tracked repository added", "name", "octocat/Hello-World")

	logs := GetLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, slog.LevelInfo, logs[0].Level)
	assert.Equal(t, "tracked repository added name=octocat/Hello-World", logs[0].Message)
	assert.Equal(t, "[INFO] tracked repository added name=octocat/Hello-World", logs[0].String())
}

func TestLogErrorUsesErrorLevel(t *testing.T) {
	resetForTest(t)

	LogError("GITHUB_GET_REPO", "foo/bar", errors.New("boom"))

	logs := GetLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, slog.LevelError, logs[0].Level)
	assert.True(t, strings.Contains(logs[0].Message, "target=foo/bar"))
	assert.True(t, strings.Contains(logs[0].Message, "error=boom"))
}

func TestBufferIsBounded(t *testing.T) {
	resetForTest(t)

	for i := 0; i < maxBufferSize+25; i++ {
		Log("entry", "i", i)
	}

	logs := GetLogs()
	require.Len(t, logs, maxBufferSize)
	assert.Equal(t, "entry i=25", logs[0].Message)
}

func TestWithGroupPrefixesKeys(t *testing.T) {
	resetForTest(t)

	Default().WithGroup("http").Info("request", "method", "GET")

	logs := GetLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, "request http.method=GET", logs[0].Message)
}
