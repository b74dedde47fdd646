package captcha

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Run("produces a decodable PNG at the requested size", func(t *testing.T) {
		data, err := Render("A3F9", DefaultWidth, DefaultHeight)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, DefaultWidth, img.Bounds().Dx())
		assert.Equal(t, DefaultHeight, img.Bounds().Dy())
	})

	t.Run("honors custom dimensions", func(t *testing.T) {
		data, err := Render("ZZZZ", 240, 100)
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 240, img.Bounds().Dx())
		assert.Equal(t, 100, img.Bounds().Dy())
	})

	t.Run("rejects invalid dimensions", func(t *testing.T) {
		_, err := Render("A3F9", 0, DefaultHeight)
		assert.Error(t, err)
		_, err = Render("A3F9", DefaultWidth, -1)
		assert.Error(t, err)
	})

	t.Run("noise varies between renders of the same code", func(t *testing.T) {
		first, err := Render("7Q2M", DefaultWidth, DefaultHeight)
		require.NoError(t, err)
		second, err := Render("7Q2M", DefaultWidth, DefaultHeight)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}
