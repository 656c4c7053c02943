package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGillhamIdentity builds a synthetic DF5 frame with
// a=7,b=0,c=0,d=0 and checks the decoded squawk is 7000.
func TestGillhamIdentity(t *testing.T) {
	msg := make([]byte, 7)
	msg[0] = 5 << 3 // DF5

	// a = (msg[3]&0x80)>>5 | (msg[2]&0x02) | (msg[2]&0x08)>>3
	// want a=7 (binary 111): needs msg[3] bit7, msg[2] bit1, msg[2] bit3 all set.
	msg[3] |= 0x80
	msg[2] |= 0x02
	msg[2] |= 0x08

	d := NewDecoder()
	mm := &Message{}
	d.Decode(mm, msg)

	assert.Equal(t, 7000, mm.Identity)
}

func TestAltitudeAC12Field(t *testing.T) {
	msg := make([]byte, 11)
	msg[0] = 17 << 3 // DF17
	msg[4] = 11 << 3 // metype 11: airborne position
	msg[5] = 0xC1    // q_bit (bit 0) = 1 and top altitude bits set

	altitude, unit := decodeAC12Field(msg)
	assert.Equal(t, UnitFeet, unit)

	n := (int(msg[5]>>1) << 4) | int((msg[6]&0xF0)>>4)
	assert.Equal(t, n*25-1000, altitude)
}

func TestDecodeIdempotent(t *testing.T) {
	msg := make([]byte, 14) // DF17 frames are 112 bits
	msg[0] = 17 << 3
	msg[4] = 11 << 3
	msg[5] = 0xC0

	d := NewDecoder()
	var mm1, mm2 Message
	d.Decode(&mm1, msg)
	d.Decode(&mm2, msg)

	assert.Equal(t, mm1.Altitude, mm2.Altitude)
	assert.Equal(t, mm1.DF, mm2.DF)
	assert.Equal(t, mm1.METype, mm2.METype)
	assert.Equal(t, mm1.RawLatitude, mm2.RawLatitude)
	assert.Equal(t, mm1.RawLongitude, mm2.RawLongitude)
}
