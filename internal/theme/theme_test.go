package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverridesDefaults(t *testing.T) {
	th, err := Parse(strings.NewReader(`
# comment
Name: mine
Line: #112233
tooltipbackground: #00000080
Preview: orange
Unknown: #FFFFFF
`))
	require.NoError(t, err)
	assert.Equal(t, "mine", th.Name)
	assert.Equal(t, color.RGBA{0x11, 0x22, 0x33, 0xFF}, th.Line)
	assert.Equal(t, color.RGBA{0, 0, 0, 0x80}, th.TooltipBackground)
	assert.Equal(t, color.RGBA{255, 165, 0, 255}, th.Preview)
	assert.Equal(t, Default().CandleUp, th.CandleUp)
}

func TestParseInvalidColor(t *testing.T) {
	_, err := Parse(strings.NewReader("Line: #12345"))
	assert.Error(t, err)
}

func TestHexRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{{1, 2, 3, 255}, {200, 100, 50, 128}} {
		got, err := ParseColor(Hex(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	names := EmbeddedNames()
	assert.Contains(t, names, "dark")
	assert.Contains(t, names, "high_contrast")

	l := &Loader{}
	for _, name := range names {
		th, err := l.Load(name)
		require.NoError(t, err, name)
		assert.NotNil(t, th)
	}
	dark, err := l.Load("dark")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x1E, 0x1E, 0x1E, 0xFF}, dark.Background)
}

func TestLoaderConfigDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "custom.theme"), []byte("Name: custom\nLine: #010203\n"), 0o644))
	l := &Loader{ConfigDir: dir}
	th, err := l.Load("custom")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{1, 2, 3, 255}, th.Line)

	_, err = l.Load("missing")
	assert.Error(t, err)
}

func TestResolvePrefersConfigured(t *testing.T) {
	configured := map[string]*Theme{"dark": {Name: "configured-dark"}}
	l := &Loader{}
	th, err := l.Resolve("dark", configured)
	require.NoError(t, err)
	assert.Equal(t, "configured-dark", th.Name)

	th, err = l.Resolve("nope", nil)
	assert.Error(t, err)
	assert.Equal(t, Default().Name, th.Name)
}

func TestFields(t *testing.T) {
	names, cols := Default().Fields()
	assert.Equal(t, "Background", names[0])
	assert.Equal(t, Default().Line, cols["Line"])
}
