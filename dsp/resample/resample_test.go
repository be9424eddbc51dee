package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-binaural/internal/testutil"
)

func TestNewSincValidation(t *testing.T) {
	for _, rate := range []float64{0, -44100, math.NaN(), math.Inf(1)} {
		if _, err := NewSinc(WithInputRate(rate)); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("NewSinc(rate=%v) error = %v, want ErrInvalidRate", rate, err)
		}
	}

	s, err := NewSinc(WithQuality(QualityBest))
	if err != nil {
		t.Fatalf("NewSinc() error = %v", err)
	}
	if s.Quality() != QualityBest {
		t.Fatalf("Quality() = %v, want QualityBest", s.Quality())
	}
}

func TestResampleRejectsInvalidRatio(t *testing.T) {
	s, err := NewSinc()
	if err != nil {
		t.Fatalf("NewSinc() error = %v", err)
	}

	for _, ratio := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := s.Resample([]float64{1, 2, 3}, ratio); !errors.Is(err, ErrInvalidRatio) {
			t.Fatalf("Resample(ratio=%v) error = %v, want ErrInvalidRatio", ratio, err)
		}
	}
}

func TestResampleUnityRatioCopies(t *testing.T) {
	s, err := NewSinc()
	if err != nil {
		t.Fatalf("NewSinc() error = %v", err)
	}

	in := testutil.DeterministicNoise(1, 1, 200)
	out, err := s.Resample(in, 1)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, in, 0)

	out[0] = 42
	if in[0] == 42 {
		t.Fatal("Resample with ratio 1 must not alias its input")
	}
}

func TestOutputLen(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		ratio float64
		want  int
	}{
		{name: "unity", n: 512, ratio: 1, want: 512},
		{name: "44k1 to 48k", n: 512, ratio: 48000.0 / 44100.0, want: 558},
		{name: "44k1 to 22k05", n: 512, ratio: 0.5, want: 257},
		{name: "upsample 2x", n: 100, ratio: 2, want: 201},
		{name: "empty", n: 0, ratio: 2, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputLen(tt.n, tt.ratio); got != tt.want {
				t.Fatalf("OutputLen(%d, %v) = %d, want %d", tt.n, tt.ratio, got, tt.want)
			}
		})
	}
}

func TestResampleFixedLength(t *testing.T) {
	s, err := NewSinc()
	if err != nil {
		t.Fatalf("NewSinc() error = %v", err)
	}

	in := testutil.DeterministicSine(1000, 44100, 1, 512)
	for _, ratio := range []float64{48000.0 / 44100.0, 96000.0 / 44100.0, 22050.0 / 44100.0} {
		out, err := s.Resample(in, ratio)
		if err != nil {
			t.Fatalf("Resample(ratio=%v) error = %v", ratio, err)
		}
		if len(out) != OutputLen(len(in), ratio) {
			t.Fatalf("ratio %v: len(out) = %d, want %d", ratio, len(out), OutputLen(len(in), ratio))
		}
		testutil.RequireFinite(t, out)
	}
}

func TestResampleKeepsImpulsePosition(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		floor float64
	}{
		{name: "44k1 to 48k", ratio: 48000.0 / 44100.0, floor: 0.5},
		{name: "upsample 2x", ratio: 2, floor: 0.5},
		{name: "48k to 44k1", ratio: 44100.0 / 48000.0, floor: 0.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSinc()
			if err != nil {
				t.Fatalf("NewSinc() error = %v", err)
			}

			for _, pos := range []int{0, 5, 20, 40, 80, 200} {
				out, err := s.Resample(testutil.Impulse(512, pos), tt.ratio)
				if err != nil {
					t.Fatalf("Resample(pos=%d) error = %v", pos, err)
				}

				peak := 0
				for i, v := range out {
					if math.Abs(v) > math.Abs(out[peak]) {
						peak = i
					}
				}
				want := int(math.Round(float64(pos) * tt.ratio))
				if peak < want-1 || peak > want+1 {
					t.Fatalf("pos %d: peak at %d, want %d±1", pos, peak, want)
				}
				if math.Abs(out[peak]) < tt.floor {
					t.Fatalf("pos %d: peak amplitude %v below %v", pos, out[peak], tt.floor)
				}
			}
		})
	}
}

func TestResampleKeepsSine(t *testing.T) {
	s, err := NewSinc()
	if err != nil {
		t.Fatalf("NewSinc() error = %v", err)
	}

	const ratio = 48000.0 / 44100.0
	in := testutil.DeterministicSine(1000, 44100, 1, 2048)
	out, err := s.Resample(in, ratio)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	want := testutil.DeterministicSine(1000, 48000, 1, len(out))
	// edges see the band-limited onset and release of the truncated sine
	inner, innerWant := out[200:len(out)-200], want[200:len(want)-200]

	rms := math.Sqrt(testutil.Energy(inner) / float64(len(inner)))
	if math.Abs(rms-math.Sqrt(0.5)) > 0.03 {
		t.Fatalf("rms = %v, want %v", rms, math.Sqrt(0.5))
	}
	for i := range inner {
		if d := math.Abs(inner[i] - innerWant[i]); d > 0.15 {
			t.Fatalf("index %d: got %v, want %v", i+200, inner[i], innerWant[i])
		}
	}
}

func TestResampleCachesOffset(t *testing.T) {
	s, err := NewSinc()
	if err != nil {
		t.Fatalf("NewSinc() error = %v", err)
	}

	in := testutil.DeterministicNoise(3, 0.5, 128)
	first, err := s.Resample(in, 2)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}
	second, err := s.Resample(in, 2)
	if err != nil {
		t.Fatalf("Resample() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, second, first, 0)
	if len(s.offsets) != 1 {
		t.Fatalf("cached offsets = %d, want 1", len(s.offsets))
	}
}

func TestAlignedPad(t *testing.T) {
	for _, ratio := range []float64{48000.0 / 44100.0, 2, 0.5, 96000.0 / 44100.0} {
		p := alignedPad(ratio)
		if p < minPad {
			t.Fatalf("ratio %v: pad %d below %d", ratio, p, minPad)
		}
		x := float64(p) * ratio
		if math.Abs(x-math.Round(x)) > 1e-6 {
			t.Fatalf("ratio %v: pad %d maps to %v output samples", ratio, p, x)
		}
	}
}
