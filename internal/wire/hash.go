package wire

import "strconv"

// CalculateHash computes the authentication hash for name against key,
// following the source's arithmetic exactly:
//
//	hash = (((sum_of_byte_values(name) * 1000) mod 65536) + key) mod 65536
//
// returned as its decimal ASCII representation.
func CalculateHash(name string, key uint16) string {
	var sum int
	for _, b := range []byte(name) {
		sum += int(b)
	}
	h := ((sum*1000)%65536 + int(key)) % 65536
	return strconv.Itoa(h)
}
