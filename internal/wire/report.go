package wire

import (
	"encoding/binary"

	"github.com/nerrad567/busylight-core/internal/light"
)

// ReportSize is the fixed length of a device report.
const ReportSize = 64

// Report byte layout.
const (
	// opRun jumps to program step 0 and runs the program.
	opRun = 0x10

	// repeatForever is the maximum repeat count; the firmware treats it
	// as an effectively infinite loop.
	repeatForever = 0xFF

	// onTimeMax holds the colour for 25.5s, the firmware's longest
	// single-step duration, so the colour persists without re-issuing
	// the report every step.
	onTimeMax = 0xFF

	// offTimeNone disables the off phase: the light stays solid.
	offTimeNone = 0x00

	// buzzerMute silences the built-in buzzer; this path is visual-only.
	buzzerMute = 0x80

	// checksumOffset is where the big-endian 16-bit checksum starts.
	checksumOffset = 62
)

// trailer is the end-of-program sentinel the firmware expects at
// bytes 56..61.
var trailer = [6]byte{0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}

// Report is a complete 64-byte device report ready for transmission.
type Report [ReportSize]byte

// EncodeSolid encodes a steady single-colour program.
//
// Layout:
//
//	Byte 0:      0x10 (jump to step 0 / run)
//	Byte 1:      0xFF (repeat count, effectively infinite)
//	Bytes 2-4:   R, G, B rescaled from 0-255 to a rounded 0-100 percentage
//	Byte 5:      0xFF (on-time = 25.5s, firmware maximum)
//	Byte 6:      0x00 (off-time = 0, never blinks)
//	Byte 7:      0x80 (buzzer muted)
//	Bytes 8-55:  zero (unused program steps)
//	Bytes 56-61: 00 00 FF FF FF FF (end-of-program sentinel)
//	Bytes 62-63: big-endian checksum = sum(bytes 0..61) mod 65536
//
// The function is total over any colour; there is no failure path.
func EncodeSolid(c light.Color) Report {
	var r Report

	r[0] = opRun
	r[1] = repeatForever
	r[2] = channelPercent(c.R)
	r[3] = channelPercent(c.G)
	r[4] = channelPercent(c.B)
	r[5] = onTimeMax
	r[6] = offTimeNone
	r[7] = buzzerMute
	copy(r[56:62], trailer[:])

	binary.BigEndian.PutUint16(r[checksumOffset:], Checksum(r))
	return r
}

// Checksum computes the report checksum: the sum of bytes 0..61
// modulo 65536. The stored checksum bytes are excluded.
func Checksum(r Report) uint16 {
	var sum uint32
	for _, b := range r[:checksumOffset] {
		sum += uint32(b)
	}
	return uint16(sum % 65536)
}

// channelPercent rescales a 0-255 channel value to a rounded 0-100
// percentage, the brightness unit the firmware uses.
func channelPercent(v uint8) byte {
	return byte((int(v)*100 + 127) / 255)
}
