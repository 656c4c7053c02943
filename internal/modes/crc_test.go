package modes

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumValidFrame(t *testing.T) {
	raw, err := hex.DecodeString("8D4B1A9A582382D49CC5AF806373")
	require.NoError(t, err)
	require.Len(t, raw, 14)

	bits := LongMsgBits
	msgBytes := bits / 8
	crcField := uint32(raw[msgBytes-3])<<16 | uint32(raw[msgBytes-2])<<8 | uint32(raw[msgBytes-1])

	got := checksum(raw, bits)
	assert.Equal(t, crcField, got, "checksum over the payload should equal the trailing 3 CRC bytes for a CRC-valid frame")
}

func TestMessageLenByType(t *testing.T) {
	assert.Equal(t, LongMsgBits, messageLenByType(17))
	assert.Equal(t, LongMsgBits, messageLenByType(20))
	assert.Equal(t, ShortMsgBits, messageLenByType(11))
	assert.Equal(t, ShortMsgBits, messageLenByType(4))
}
