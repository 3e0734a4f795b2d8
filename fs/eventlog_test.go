package fs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civsearch/civsearch/fs"
)

func TestEventLog_AppendAndLastN(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "civsearch.log")
	log := fs.NewEventLog(path)

	require.NoError(t, log.Append("crawl started"))
	require.NoError(t, log.Append("crawl finished"))
	require.NoError(t, log.Append("index updated"))

	lines, err := log.LastN(2)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "crawl finished")
	assert.Contains(t, lines[1], "index updated")
}

func TestEventLog_LinesAreTimestamped(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "civsearch.log")
	log := fs.NewEventLog(path)
	require.NoError(t, log.Append("hello"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	// RFC3339 timestamp followed by the message.
	parts := strings.SplitN(line, " ", 2)
	require.Len(t, parts, 2)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, parts[0])
	assert.Equal(t, "hello", parts[1])
}

func TestEventLog_FlattensNewlines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "civsearch.log")
	log := fs.NewEventLog(path)
	require.NoError(t, log.Append("first\nsecond"))

	lines, err := log.LastN(10)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "first second")
}

func TestEventLog_LastN_MissingFile(t *testing.T) {
	t.Parallel()

	log := fs.NewEventLog(filepath.Join(t.TempDir(), "nope.log"))
	lines, err := log.LastN(5)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestEventLog_LastN_MoreThanAvailable(t *testing.T) {
	t.Parallel()

	log := fs.NewEventLog(filepath.Join(t.TempDir(), "civsearch.log"))
	require.NoError(t, log.Append("only entry"))

	lines, err := log.LastN(100)
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}
