package imageprocessor

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessKeepsSmallImage(t *testing.T) {
	p := NewProcessor(85)

	data, format, err := p.Process(bytes.NewReader(encodePNG(t, 100, 100)), SizeAvatar)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestProcessScalesDownLargeImage(t *testing.T) {
	p := NewProcessor(85)

	data, _, err := p.Process(bytes.NewReader(encodePNG(t, 1024, 512)), SizeAvatar)
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), SizeAvatar.Width)
	assert.LessOrEqual(t, img.Bounds().Dy(), SizeAvatar.Height)
}

func TestProcessRejectsGarbage(t *testing.T) {
	p := NewProcessor(85)

	_, _, err := p.Process(strings.NewReader("definitely not an image"), SizeAvatar)
	assert.Error(t, err)
}

func TestIsValidImage(t *testing.T) {
	assert.True(t, IsValidImage(bytes.NewReader(encodePNG(t, 10, 10))))
	assert.False(t, IsValidImage(strings.NewReader("nope")))
}
