package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "six digits", input: "#3584e4", want: "#3584e4"},
		{name: "no hash", input: "ff0000", want: "#ff0000"},
		{name: "short form", input: "#0f0", want: "#00ff00"},
		{name: "with alpha", input: "#11223380", want: "#11223380"},
		{name: "opaque alpha dropped", input: "#112233ff", want: "#112233"},
		{name: "bad length", input: "#12345", wantErr: true},
		{name: "bad digits", input: "#zzzzzz", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := ParseHexColor(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Hex())
		})
	}
}

func TestColor_HexClampsChannels(t *testing.T) {
	assert.Equal(t, "#ff0000", Color{R: 2, G: -1, B: 0, A: 1}.Hex())
}

func TestDefaultAppearance(t *testing.T) {
	a := DefaultAppearance()

	assert.True(t, a.DarkMode)
	assert.True(t, a.AutoplayAnimatedImages)
	assert.False(t, a.HighContrast)
	assert.Equal(t, SourceFallback, a.Source)
	assert.Equal(t, DefaultAccentColor, a.AccentColor)
	assert.InDelta(t, 0.5, a.HighlightColor.A, 1e-9)
}

func TestColor_TextEncoding(t *testing.T) {
	a := DefaultAppearance()

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accent_color":"#3584e4"`)
	assert.Contains(t, string(data), `"highlight_color":"#3584e480"`)

	var c Color
	assert.Error(t, c.UnmarshalText([]byte("nope")))
	require.NoError(t, c.UnmarshalText([]byte("#ff0000")))
	assert.Equal(t, RGB(1, 0, 0), c)
}
