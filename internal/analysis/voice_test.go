package analysis

import (
	"context"
	"math"
	"testing"

	"go.uber.org/zap"
)

const testRate = 16000

func sine(freq float64, seconds float64) []float64 {
	n := int(seconds * testRate)
	out := make([]float64, n)
	for i := range out {
		out[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/testRate)
	}
	return out
}

func TestAnalyzeAbsentSample(t *testing.T) {
	a := NewAnalyzer(zap.NewNop())

	metrics, err := a.Analyze(context.Background(), nil, testRate)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if metrics.Stress != 0 || metrics.Anxiety != 0 || metrics.Depression != 0 {
		t.Errorf("absent sample should yield zero metrics, got %+v", metrics)
	}

	if _, err := a.Analyze(context.Background(), sine(200, 0.1), 0); err != nil {
		t.Errorf("zero sample rate should not error, got %v", err)
	}
}

func TestStablePitchHasLowStress(t *testing.T) {
	a := NewAnalyzer(zap.NewNop())

	metrics, err := a.Analyze(context.Background(), sine(200, 1.0), testRate)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if metrics.Stress > 0.05 {
		t.Errorf("steady tone should have near-zero stress, got %f", metrics.Stress)
	}
}

func TestUnstablePitchRaisesStress(t *testing.T) {
	a := NewAnalyzer(zap.NewNop())
	ctx := context.Background()

	// Alternate between two pitches every tenth of a second.
	var wobble []float64
	for i := 0; i < 5; i++ {
		wobble = append(wobble, sine(150, 0.1)...)
		wobble = append(wobble, sine(300, 0.1)...)
	}

	stable, err := a.Analyze(ctx, sine(150, 1.0), testRate)
	if err != nil {
		t.Fatalf("Analyze stable: %v", err)
	}
	unstable, err := a.Analyze(ctx, wobble, testRate)
	if err != nil {
		t.Fatalf("Analyze wobble: %v", err)
	}

	if unstable.Stress <= stable.Stress {
		t.Errorf("pitch wobble should raise stress: stable=%f unstable=%f", stable.Stress, unstable.Stress)
	}
}

func TestVoicedSegmentsDriveAnxiety(t *testing.T) {
	a := NewAnalyzer(zap.NewNop())
	ctx := context.Background()

	// Two bursts of speech separated by silence.
	var bursts []float64
	bursts = append(bursts, sine(200, 0.3)...)
	bursts = append(bursts, make([]float64, testRate/2)...)
	bursts = append(bursts, sine(200, 0.3)...)

	one, err := a.Analyze(ctx, sine(200, 0.6), testRate)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	two, err := a.Analyze(ctx, bursts, testRate)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if one.Anxiety != 0.1 {
		t.Errorf("single burst anxiety = %f, want 0.1", one.Anxiety)
	}
	if two.Anxiety != 0.2 {
		t.Errorf("two bursts anxiety = %f, want 0.2", two.Anxiety)
	}
}

func TestBrightnessLowersDepression(t *testing.T) {
	a := NewAnalyzer(zap.NewNop())
	ctx := context.Background()

	dull, err := a.Analyze(ctx, sine(120, 0.5), testRate)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	bright, err := a.Analyze(ctx, sine(450, 0.5), testRate)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if bright.Depression >= dull.Depression {
		t.Errorf("brighter voice should score lower depression: dull=%f bright=%f", dull.Depression, bright.Depression)
	}
	for _, m := range []float64{dull.Depression, bright.Depression} {
		if m < 0 || m > 1 {
			t.Errorf("depression out of range: %f", m)
		}
	}
}

func TestPitchTrackFindsFundamental(t *testing.T) {
	pitches := pitchTrack(sine(250, 0.5), testRate)
	if len(pitches) == 0 {
		t.Fatal("no pitch frames detected in a steady tone")
	}
	for _, p := range pitches {
		if math.Abs(p-250) > 15 {
			t.Errorf("pitch estimate %f too far from 250 Hz", p)
		}
	}
}
