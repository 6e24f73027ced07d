// SPDX-License-Identifier: EPL-2.0

package ogg

// Ogg uses CRC-32 with polynomial 0x04C11DB7, no reflection and a zero
// initial value, which is not what hash/crc32 computes.

var crcTable [256]uint32

func init() {
	const poly = uint32(0x04C11DB7)
	for i := range crcTable {
		crc := uint32(i) << 24
		for range 8 {
			if crc&0x80000000 != 0 {
				crc = (crc << 1) ^ poly
			} else {
				crc <<= 1
			}
		}
		crcTable[i] = crc
	}
}

func crcUpdate(crc uint32, data []byte) uint32 {
	for _, b := range data {
		crc = (crc << 8) ^ crcTable[byte(crc>>24)^b]
	}
	return crc
}

// Checksum computes the page checksum of a complete encoded page. The
// checksum field (bytes 22 to 25) is treated as zero.
func Checksum(page []byte) uint32 {
	if len(page) < HeaderSize {
		return crcUpdate(0, page)
	}
	var zero [4]byte
	crc := crcUpdate(0, page[:22])
	crc = crcUpdate(crc, zero[:])
	return crcUpdate(crc, page[26:])
}
