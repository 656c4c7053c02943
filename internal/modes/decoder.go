// Package modes implements Mode S/ADS-B preamble detection and field
// decoding: CRC validation, Downlink Format dispatch, and CPR field
// extraction. CPR position resolution itself lives in the registry
// package, which owns the per-aircraft odd/even pair.
package modes

import (
	"fmt"
	"math"
	"time"

	cache "github.com/patrickmn/go-cache"
)

const icaoCacheTTL = 60 * time.Second

// Unit selects the altitude unit decoded from the M bit.
type Unit int

const (
	UnitFeet Unit = iota
	UnitMeters
)

// Message is a decoded Mode S frame. Only the fields relevant to the
// Downlink Formats this system handles are populated; everything else
// is zero-valued.
type Message struct {
	Msg   []byte
	Bits  int
	DF    int
	CRCOK bool
	CRC   uint32

	AA1, AA2, AA3 uint32 // ICAO address bytes

	CA int // DF11 responder capability

	METype, MESub int

	HeadingValid int
	Heading      int
	AircraftType int
	FFlag        int // nonzero = odd, 0 = even CPR
	TFlag        int
	RawLatitude  int
	RawLongitude int
	Flight       [9]rune

	EWDir, EWVelocity int
	NSDir, NSVelocity int
	VertRateSource    int
	VertRateSign      int
	VertRate          int
	Velocity          int

	FS       int
	DR       int
	UM       int
	Identity int

	Altitude int
	AltUnit  Unit

	PhaseCorrected bool
}

// ICAOAddress packs the three ICAO address bytes into a 24-bit value.
func (m *Message) ICAOAddress() uint32 {
	return m.AA1<<16 | m.AA2<<8 | m.AA3
}

var aisCharset = []rune("?ABCDEFGHIJKLMNOPQRSTUVWXYZ????? ???????????????0123456789??????")

// Decoder turns raw bit-sliced frames into Message records, tracking
// recently seen ICAO addresses so DF types whose address field is XORed
// with the checksum (0,4,5,16,20,21,24) can be recovered by brute force.
type Decoder struct {
	icaoCache *cache.Cache
}

// NewDecoder constructs a Decoder with its ICAO cache armed.
func NewDecoder() *Decoder {
	return &Decoder{
		icaoCache: cache.New(icaoCacheTTL, 10*time.Second),
	}
}

func (d *Decoder) addRecentlySeenICAO(addr uint32) {
	d.icaoCache.SetDefault(fmt.Sprint(addr), addr)
}

func (d *Decoder) icaoRecentlySeen(addr uint32) bool {
	_, found := d.icaoCache.Get(fmt.Sprint(addr))
	return found
}

// bruteForceAP recovers the ICAO address for DF types whose AP field is
// the address XORed with the checksum, accepting the recovery only if
// the resulting address was recently seen in a DF11/DF17 frame.
func (d *Decoder) bruteForceAP(msg []byte, mm *Message) error {
	switch mm.DF {
	case 0, 4, 5, 16, 20, 21, 24:
		msgBytes := mm.Bits / 8
		aux := make([]byte, msgBytes)
		copy(aux, msg)

		crc := checksum(aux, mm.Bits)
		last := msgBytes - 1
		aux[last] ^= byte(crc & 0xff)
		aux[last-1] ^= byte((crc >> 8) & 0xff)
		aux[last-2] ^= byte((crc >> 16) & 0xff)

		addr := uint32(aux[last]) | uint32(aux[last-1])<<8 | uint32(aux[last-2])<<16
		if d.icaoRecentlySeen(addr) {
			mm.AA1 = uint32(aux[last-2])
			mm.AA2 = uint32(aux[last-1])
			mm.AA3 = uint32(aux[last])
			return nil
		}
	}
	return fmt.Errorf("modes: cannot recover address for DF%d", mm.DF)
}

func decodeAC13Field(msg []byte) (altitude int, unit Unit) {
	mBit := msg[3] & (1 << 6)
	qBit := msg[3] & (1 << 4)

	if mBit == 0 {
		unit = UnitFeet
		if qBit != 0 {
			n := int(msg[2]&31)<<6 | int(msg[3]&0x80)>>2 | int(msg[3]&0x20)>>1 | int(msg[3]&15)
			altitude = n*25 - 1000
		}
	} else {
		unit = UnitMeters
	}
	return
}

func decodeAC12Field(msg []byte) (altitude int, unit Unit) {
	qBit := msg[5] & 1
	unit = UnitFeet
	if qBit != 0 {
		n := int(msg[5]>>1)<<4 | int(msg[6]&0xF0)>>4
		altitude = n*25 - 1000
	}
	return
}

// Decode populates mm by parsing the field layout of msg, which must
// already be framed to the Downlink Format's declared bit length (use
// messageLenByType or a Detector result). It records the result of the
// CRC check in mm.CRCOK: for DF11/DF17 the syndrome must equal the
// trailing 24 bits; for the other formats the address recovered from the
// parity field must have been seen recently in a CRC-valid DF11/DF17.
func (d *Decoder) Decode(mm *Message, msg []byte) {
	mm.Msg = make([]byte, len(msg))
	copy(mm.Msg, msg)
	msg = mm.Msg

	mm.DF = int(msg[0]) >> 3
	mm.Bits = messageLenByType(mm.DF)

	mm.CRC = uint32(msg[mm.Bits/8-3])<<16 | uint32(msg[mm.Bits/8-2])<<8 | uint32(msg[mm.Bits/8-1])
	crc2 := checksum(msg, mm.Bits)
	mm.CRCOK = mm.CRC == crc2

	mm.CA = int(msg[0]) & 7
	mm.AA1 = uint32(msg[1])
	mm.AA2 = uint32(msg[2])
	mm.AA3 = uint32(msg[3])

	mm.METype = int(msg[4]) >> 3
	mm.MESub = int(msg[4]) & 7

	mm.FS = int(msg[0]) & 7
	mm.DR = int(msg[1]) >> 3 & 31
	mm.UM = (int(msg[1])&7)<<3 | int(msg[2])>>5

	// Gillham-coded squawk: bits interleave as C1 A1 C2 A2 C4 A4 0 B1 D1 B2 D2 B4 D4.
	{
		a := (msg[3]&0x80)>>5 | (msg[2]&0x02)>>0 | (msg[2]&0x08)>>3
		b := (msg[3]&0x02)<<1 | (msg[3]&0x08)>>2 | (msg[3]&0x20)>>5
		c := (msg[2]&0x01)<<2 | (msg[2]&0x04)>>1 | (msg[2]&0x10)>>4
		e := (msg[3]&0x01)<<2 | (msg[3]&0x04)>>1 | (msg[3]&0x10)>>4
		mm.Identity = int(a)*1000 + int(b)*100 + int(c)*10 + int(e)
	}

	if mm.DF != 11 && mm.DF != 17 {
		mm.CRCOK = d.bruteForceAP(msg, mm) == nil
	} else if mm.CRCOK {
		d.addRecentlySeenICAO(mm.ICAOAddress())
	}

	if mm.DF == 0 || mm.DF == 4 || mm.DF == 16 || mm.DF == 20 {
		mm.Altitude, mm.AltUnit = decodeAC13Field(msg)
	}

	if mm.DF == 17 {
		switch {
		case mm.METype >= 1 && mm.METype <= 4:
			mm.AircraftType = mm.METype - 1
			mm.Flight[0] = aisCharset[msg[5]>>2]
			mm.Flight[1] = aisCharset[(msg[5]&3)<<4|msg[6]>>4]
			mm.Flight[2] = aisCharset[(msg[6]&15)<<2|msg[7]>>6]
			mm.Flight[3] = aisCharset[msg[7]&63]
			mm.Flight[4] = aisCharset[msg[8]>>2]
			mm.Flight[5] = aisCharset[(msg[8]&3)<<4|msg[9]>>4]
			mm.Flight[6] = aisCharset[(msg[9]&15)<<2|msg[10]>>6]
			mm.Flight[7] = aisCharset[msg[10]&63]
			mm.Flight[8] = 0
		case mm.METype >= 9 && mm.METype <= 18:
			mm.FFlag = int(msg[6]) & (1 << 2)
			mm.TFlag = int(msg[6]) & (1 << 3)
			mm.Altitude, mm.AltUnit = decodeAC12Field(msg)
			mm.RawLatitude = (int(msg[6])&3)<<15 | int(msg[7])<<7 | int(msg[8])>>1
			mm.RawLongitude = (int(msg[8])&1)<<16 | int(msg[9])<<8 | int(msg[10])
		case mm.METype == 19 && mm.MESub >= 1 && mm.MESub <= 4:
			if mm.MESub == 1 || mm.MESub == 2 {
				mm.EWDir = (int(msg[5]) & 4) >> 2
				mm.EWVelocity = (int(msg[5])&3)<<8 | int(msg[6])
				mm.NSDir = (int(msg[7]) & 0x80) >> 7
				mm.NSVelocity = (int(msg[7])&0x7f)<<3 | (int(msg[8])&0xe0)>>5
				mm.VertRateSource = (int(msg[8]) & 0x10) >> 4
				mm.VertRateSign = (int(msg[8]) & 0x8) >> 3
				mm.VertRate = (int(msg[8])&7)<<6 | (int(msg[9])&0xfc)>>2

				mm.Velocity = int(math.Sqrt(float64(mm.NSVelocity*mm.NSVelocity + mm.EWVelocity*mm.EWVelocity)))
				if mm.Velocity != 0 {
					ewv, nsv := mm.EWVelocity, mm.NSVelocity
					if mm.EWDir == 1 {
						ewv *= -1
					}
					if mm.NSDir == 1 {
						nsv *= -1
					}
					heading := math.Atan2(float64(ewv), float64(nsv)) * 360 / (2 * math.Pi)
					if heading < 0 {
						heading += 360
					}
					mm.Heading = int(heading)
				}
			} else {
				mm.HeadingValid = int(msg[5]) & (1 << 2)
				mm.Heading = int(360.0 / 1024 * float64((int(msg[5])&3)<<8|int(msg[6])))
			}
		}
	}

	mm.PhaseCorrected = false
}
