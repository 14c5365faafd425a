package decoder

import (
	"github.com/faanross/nebula_stego/internal/framer"
	"github.com/faanross/nebula_stego/internal/lsb"
	"github.com/faanross/nebula_stego/internal/spec"
)

// Report describes a carrier without needing the password
type Report struct {
	lsb.Stats
	HeaderLength uint32
	HasFrame     bool // header is plausible for this carrier
}

// Analyze performs LSB analysis on a carrier
func Analyze[S lsb.Sample](buf []S, addr lsb.Addressing) Report {
	report := Report{Stats: lsb.Analyze(buf, addr)}

	units := addr.Units(len(buf))
	if units < spec.HEADER_BITS {
		return report
	}
	head, err := lsb.Extract(buf, addr, spec.HEADER_BITS)
	if err != nil {
		return report
	}
	length, err := framer.HeaderLength(head)
	if err != nil {
		return report
	}
	report.HeaderLength = length
	report.HasFrame = framer.CheckLength(length, units-spec.HEADER_BITS) == nil
	return report
}
