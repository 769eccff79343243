package asset

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T) (string, []byte) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 0, G: 115, B: 180, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	pat := filepath.Join(t.TempDir(), "logo-pln.png")
	require.NoError(t, os.WriteFile(pat, buf.Bytes(), 0600))

	return pat, buf.Bytes()
}

func Test_Asset_Read(t *testing.T) {
	pat, raw := writePNG(t)

	img, err := Read(pat)
	require.NoError(t, err)

	assert.Equal(t, "image/png", img.Mim)

	uri := string(img.URI())
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	dec, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, raw, dec)
}

func Test_Asset_Read_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.False(t, IsInvalidImage(err))
}

func Test_Asset_Read_NotImage(t *testing.T) {
	pat := filepath.Join(t.TempDir(), "logo-pln.png")
	require.NoError(t, os.WriteFile(pat, []byte("plain text, not a picture"), 0600))

	_, err := Read(pat)
	require.Error(t, err)
	assert.True(t, IsInvalidImage(err))
}
