package archive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	t.Parallel()

	k := NewKey("Meghalaya", "East Khasi Hills", "Block 1", "GP/1", "2020-21", "15/01/2021")
	got := Filename(k, "All")
	assert.Equal(t, "Meghalaya_East_Khasi_Hills_Block_1_GP_1_2020-21_15_01_2021_All.html.gz", got)
}

func TestParseFilenameRoundTrip(t *testing.T) {
	t.Parallel()

	keys := []Key{
		NewKey("Meghalaya", "East-Khasi-Hills", "Block1", "GP1", "2020-21", "15-01-2021"),
		NewKey("A", "B", "C", "D", "E", "F"),
		// The date field absorbs embedded delimiters introduced by sanitizing.
		NewKey("S", "D", "B", "P", "Y", "15/01/2021"),
	}
	for _, k := range keys {
		name := Filename(k, "All")
		got, ok := ParseFilename(name)
		require.True(t, ok, "filename %q", name)
		assert.Equal(t, k, got, "filename %q", name)
	}
}

func TestParseFilenameConcrete(t *testing.T) {
	t.Parallel()

	k, ok := ParseFilename("Meghalaya_East-Khasi-Hills_Block1_GP1_2020-21_15-01-2021_All.html.gz")
	require.True(t, ok)
	assert.Equal(t, Key{
		State:     "Meghalaya",
		District:  "East-Khasi-Hills",
		Block:     "Block1",
		Panchayat: "GP1",
		Year:      "2020-21",
		Date:      "15-01-2021",
	}, k)
}

func TestParseFilenamePlainExtension(t *testing.T) {
	t.Parallel()

	k, ok := ParseFilename("S_D_B_P_Y_DT_All.html")
	require.True(t, ok)
	assert.Equal(t, NewKey("S", "D", "B", "P", "Y", "DT"), k)
}

func TestParseFilenameMalformed(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"notes.txt",
		"nounderscore.html.gz",
		"only_five_fields_here_x.html.gz",
		"A_B_C_D_E.html.gz", // five fields once the option is stripped
	} {
		_, ok := ParseFilename(name)
		assert.False(t, ok, "name %q", name)
	}
}
