package logx

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltersRing(t *testing.T) {
	Reset()
	SetLevel(Warn)
	defer SetLevel(Info)

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)

	lines := Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "WARN")
	assert.Contains(t, lines[0], "shown 2")
}

func TestRingDropsOldest(t *testing.T) {
	Reset()
	for i := 0; i < maxLines+10; i++ {
		Infof("line %d", i)
	}
	lines := Lines()
	require.Len(t, lines, maxLines)
	assert.True(t, strings.HasSuffix(lines[0], "line 10"), lines[0])
}

func TestSetOutputMirrorsToFile(t *testing.T) {
	Reset()
	p := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, SetOutput(p))
	defer func() { _ = SetOutput() }()

	Errorf("load failed: %s", "boom")
	Sync()

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "load failed: boom")
}
