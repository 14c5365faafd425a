package carrier

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	stegerr "github.com/faanross/nebula_stego/internal/errors"
)

const wavPCM = 1

// Audio is a 16-bit PCM sample buffer; channels stay interleaved.
type Audio struct {
	Samples    []int16
	SampleRate int
	Channels   int
}

// LoadWAV decodes a 16-bit PCM WAV file.
func LoadWAV(filename string) (*Audio, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: %s is not a valid WAV file", stegerr.ErrUnsupportedContainer, filename)
	}
	if d.WavAudioFormat != wavPCM || d.BitDepth != 16 {
		return nil, fmt.Errorf("%w: need 16-bit PCM, got format %d at %d bits",
			stegerr.ErrUnsupportedContainer, d.WavAudioFormat, d.BitDepth)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}
	return &Audio{
		Samples:    samples,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
	}, nil
}

// SaveWAV writes a as a 16-bit PCM WAV file.
func SaveWAV(filename string, a *Audio) error {
	if a.Channels <= 0 || a.SampleRate <= 0 {
		return fmt.Errorf("invalid audio layout: %d channels at %d Hz", a.Channels, a.SampleRate)
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	data := make([]int, len(a.Samples))
	for i, v := range a.Samples {
		data[i] = int(v)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: a.Channels, SampleRate: a.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	enc := wav.NewEncoder(f, a.SampleRate, 16, a.Channels, wavPCM)
	err = enc.Write(buf)
	if cerr := enc.Close(); err == nil {
		err = cerr
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	return nil
}
