package carrier

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/faanross/nebula_stego/internal/seed"
)

// palettes are the base colours a generated image blends between.
var palettes = map[seed.Mood][]color.NRGBA{
	seed.Warm: {
		{R: 255, G: 94, B: 58, A: 255},
		{R: 255, G: 179, B: 71, A: 255},
		{R: 214, G: 40, B: 90, A: 255},
		{R: 255, G: 230, B: 150, A: 255},
	},
	seed.Cold: {
		{R: 18, G: 42, B: 94, A: 255},
		{R: 64, G: 130, B: 200, A: 255},
		{R: 120, G: 200, B: 230, A: 255},
		{R: 40, G: 20, B: 80, A: 255},
	},
	seed.Neutral: {
		{R: 60, G: 60, B: 70, A: 255},
		{R: 140, G: 130, B: 160, A: 255},
		{R: 200, G: 190, B: 210, A: 255},
		{R: 90, G: 110, B: 100, A: 255},
	},
}

// scales are the semitone offsets of the generated chord.
var scales = map[seed.Mood][]int{
	seed.Warm:    {0, 4, 7, 12}, // major
	seed.Cold:    {0, 3, 7, 10}, // minor seventh
	seed.Neutral: {0, 5, 7, 12}, // suspended
}

// GenerateImage renders an opaque nebula of soft colour blobs. The same seed
// and mood always give the same pixels.
func GenerateImage(s uint32, mood seed.Mood, width, height int) *image.NRGBA {
	r := rand.New(rand.NewSource(int64(s)))
	palette := palettes[mood]
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	type blob struct {
		x, y, radius float64
		c            color.NRGBA
	}
	blobs := make([]blob, 6+r.Intn(6))
	for i := range blobs {
		blobs[i] = blob{
			x:      r.Float64() * float64(width),
			y:      r.Float64() * float64(height),
			radius: (0.15 + 0.35*r.Float64()) * float64(max(width, height)),
			c:      palette[r.Intn(len(palette))],
		}
	}
	base := palette[0]

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			rr, gg, bb := float64(base.R)*0.3, float64(base.G)*0.3, float64(base.B)*0.3
			for _, b := range blobs {
				d := math.Hypot(float64(x)-b.x, float64(y)-b.y) / b.radius
				w := math.Exp(-d * d)
				rr += w * float64(b.c.R)
				gg += w * float64(b.c.G)
				bb += w * float64(b.c.B)
			}
			grain := float64(r.Intn(9) - 4)
			img.SetNRGBA(x, y, color.NRGBA{
				R: clamp8(rr + grain),
				G: clamp8(gg + grain),
				B: clamp8(bb + grain),
				A: 255,
			})
		}
	}
	return img
}

// GenerateTone synthesises a mono chord with slow tremolo. The same seed and
// mood always give the same samples.
func GenerateTone(s uint32, mood seed.Mood, sampleRate, n int) *Audio {
	r := rand.New(rand.NewSource(int64(s)))
	root := 110.0 * math.Pow(2, float64(r.Intn(24))/12)
	tremolo := 0.2 + r.Float64()*0.8
	intervals := scales[mood]

	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		v := 0.0
		for k, semis := range intervals {
			f := root * math.Pow(2, float64(semis)/12)
			v += math.Sin(2*math.Pi*f*t) / float64(k+2)
		}
		v *= 0.6 + 0.4*math.Sin(2*math.Pi*tremolo*t)
		v += (r.Float64() - 0.5) * 0.01
		samples[i] = int16(math.Max(-1, math.Min(1, v*0.5)) * 32767)
	}
	return &Audio{Samples: samples, SampleRate: sampleRate, Channels: 1}
}

func clamp8(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
