package render

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDetectLayers(t *testing.T) {
	t.Parallel()

	raw := []byte("1 0 obj\n<</Type /OCG /Name (Regions)>>\nendobj\n" +
		"2 0 obj\n<</Type /OCG /Name (\xfe\xff\x00T\x00e\x00x\x00t)>>\nendobj\n")

	layers, err := DetectLayers(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"Regions", "Text"}, layers)

	_, err = DetectLayers(nil)
	require.Error(t, err)
}

func TestCheckLayers(t *testing.T) {
	t.Parallel()

	raw := []byte("<</Type /OCG /Name (Regions)>>")

	result, err := CheckLayers(raw, "Regions", "Text fields", "")
	require.NoError(t, err)
	require.True(t, result.HasLayers)
	require.Equal(t, []string{"Regions"}, result.Found)

	result, err = CheckLayers([]byte("%PDF-1.4 no layers"), "Regions")
	require.NoError(t, err)
	require.False(t, result.HasLayers)
	require.Empty(t, result.Layers)
}

func TestDecodeUTF16BE(t *testing.T) {
	t.Parallel()

	s, err := decodeUTF16BE([]byte("\xfe\xff\x00O\x00K"))
	require.NoError(t, err)
	require.Equal(t, "OK", s)

	_, err = decodeUTF16BE([]byte("OK"))
	require.Error(t, err)
}
