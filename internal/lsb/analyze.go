package lsb

import "math"

// Stats summarises the low bits of a carrier.
type Stats struct {
	Units   int
	Zeros   int
	Ones    int
	Entropy float64 // bits per byte of packed LSBs, max 8.0
}

// ZeroRatio is the share of zero bits in percent.
func (s Stats) ZeroRatio() float64 {
	total := s.Zeros + s.Ones
	if total == 0 {
		return 0
	}
	return float64(s.Zeros) * 100 / float64(total)
}

// LooksRandom reports a near even bit split, typical of embedded ciphertext.
func (s Stats) LooksRandom() bool {
	r := s.ZeroRatio()
	return r > 45 && r < 55
}

// Analyze collects LSB distribution and entropy over every addressable unit.
func Analyze[S Sample](carrier []S, addr Addressing) Stats {
	units := addr.Units(len(carrier))
	stats := Stats{Units: units}

	frequency := make(map[byte]int)
	var packed byte
	count := 0
	for i := 0; i < units; i++ {
		bit := byte(carrier[addr.Position(i)] & 1)
		if bit == 1 {
			stats.Ones++
		} else {
			stats.Zeros++
		}

		packed = packed<<1 | bit
		count++
		if count == 8 {
			frequency[packed]++
			packed, count = 0, 0
		}
	}

	total := float64(units / 8)
	for _, n := range frequency {
		p := float64(n) / total
		stats.Entropy -= p * math.Log2(p)
	}
	return stats
}
