package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderAndBody(t *testing.T) {
	data := []byte("---\ntype: npc\nfaction: combine\ndisposition: wary\nmood: sour\n---\n\n# Vex\nRuns the dockside crew.\n")

	fm, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "npc", fm.Fields["type"])
	assert.Equal(t, "combine", fm.Fields["faction"])
	assert.Equal(t, "wary", fm.Fields["disposition"])
	// Unknown keys are parsed too; the syncer decides what to ignore.
	assert.Equal(t, "sour", fm.Fields["mood"])
	assert.Contains(t, fm.Body, "# Vex")
}

func TestParseNoHeader(t *testing.T) {
	fm, err := Parse([]byte("just prose, no header\n"))
	require.NoError(t, err)
	assert.Empty(t, fm.Fields)
	assert.Equal(t, "just prose, no header\n", fm.Body)
}

func TestParseEmptyHeader(t *testing.T) {
	fm, err := Parse([]byte("---\n---\n\n# Vex\n"))
	require.NoError(t, err)
	assert.Empty(t, fm.Fields)
	assert.Equal(t, "# Vex\n", fm.Body)

	fm, err = Parse([]byte("---\n---\n"))
	require.NoError(t, err)
	assert.Empty(t, fm.Fields)
	assert.Empty(t, fm.Body)
}

func TestParseUnterminatedHeader(t *testing.T) {
	_, err := Parse([]byte("---\ntype: npc\n"))
	assert.Error(t, err)
}

func TestParseBadYAMLHeader(t *testing.T) {
	_, err := Parse([]byte("---\n\t: [unclosed\n---\nbody\n"))
	assert.Error(t, err)
}

func TestRenderRoundTrip(t *testing.T) {
	fields := map[string]string{"type": "faction", "standing": "allied"}
	data := Render([]string{"type", "standing"}, fields, "# The Wardens\nOld debts.\n")

	fm, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "faction", fm.Fields["type"])
	assert.Equal(t, "allied", fm.Fields["standing"])
	assert.Equal(t, "# The Wardens\nOld debts.\n", fm.Body)
}

func TestRenderOmitsEmptyValues(t *testing.T) {
	data := Render([]string{"type", "faction"}, map[string]string{"type": "npc"}, "")
	assert.NotContains(t, string(data), "faction")
}
