package rename

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/ccxrename/internal/store"
)

func TestRenderSnapshotDisplayMode(t *testing.T) {
	out := RenderSnapshot(Options{Store: store.NewSeeded("Physics 101")}, SnapshotConfig{
		Width:   40,
		Height:  5,
		NoColor: true,
	})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Physics 101", lines[0])
	assert.Contains(t, lines[1], "press e to rename")
	assert.Equal(t, strings.Repeat(" ", 40), lines[4])
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderSnapshotWithKeys(t *testing.T) {
	client := &fakeRenamer{}
	out := RenderSnapshot(Options{Store: store.NewSeeded("Physics 101"), Client: client}, SnapshotConfig{
		Width:     60,
		NoColor:   true,
		StartKeys: []string{"e<C-u>Physics 102<CR>"},
	})
	assert.Contains(t, out, "Display name:")
	assert.Contains(t, out, "Physics 102")
	assert.Contains(t, out, "Saving CCX display name")
	assert.Empty(t, client.calls(), "snapshots never send requests")
}

func TestPadSnapshotHeight(t *testing.T) {
	assert.Equal(t, "a\nb", padSnapshotHeight("a\nb", 0, 10))
	assert.Equal(t, "a\nb", padSnapshotHeight("a\nb\nc", 2, 10))
	assert.Equal(t, "a\n ", padSnapshotHeight("a\n", 2, 0))
}
