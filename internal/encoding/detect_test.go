package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salestream/server/internal/encoding"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	out, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(out)
}

func TestNewUTF8Reader_PlainUTF8(t *testing.T) {
	assert.Equal(t, "invoiceNumber,notes\nINV-1,café", readAll(t, []byte("invoiceNumber,notes\nINV-1,café")))
}

func TestNewUTF8Reader_StripsUTF8BOM(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("productName\nMug")...)
	assert.Equal(t, "productName\nMug", readAll(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	var input []byte

	input = append(input, 0xFF, 0xFE)
	for _, r := range "Mug" {
		input = append(input, byte(r), 0x00)
	}

	assert.Equal(t, "Mug", readAll(t, input))
}

func TestNewUTF8Reader_Windows1252Fallback(t *testing.T) {
	// "café" with an 0xE9 byte, invalid as UTF-8.
	input := []byte{'c', 'a', 'f', 0xE9}
	assert.Equal(t, "café", readAll(t, input))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Empty(t, readAll(t, nil))
}
