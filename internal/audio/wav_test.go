package audio

import (
	"math"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	samples := make([]float64, 256)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*float64(i)/64)
	}

	decoded, rate, err := Decode(Encode(samples, 16000))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if rate != 16000 {
		t.Errorf("sample rate = %d, want 16000", rate)
	}
	if len(decoded) != len(samples) {
		t.Fatalf("decoded %d samples, want %d", len(decoded), len(samples))
	}
	for i := range samples {
		if math.Abs(decoded[i]-samples[i]) > 1.0/32000 {
			t.Fatalf("sample %d: got %f, want %f", i, decoded[i], samples[i])
		}
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "too short", data: []byte("RIFF")},
		{name: "not riff", data: []byte("this is definitely not a wav file")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestDecodeTakesFirstChannel(t *testing.T) {
	// Hand-build a stereo file: left channel constant positive, right
	// channel constant negative.
	mono := Encode([]float64{0, 0, 0, 0}, 8000)

	// Patch header to stereo and rebuild interleaved data.
	stereo := make([]byte, 0, 44+16)
	stereo = append(stereo, mono[:44]...)
	stereo[22] = 2 // channels
	for i := 0; i < 4; i++ {
		stereo = append(stereo, 0x00, 0x40) // left: +0.5
		stereo = append(stereo, 0x00, 0xC0) // right: -0.5
	}
	// Fix data chunk size for 4 stereo frames.
	stereo[40] = 16
	stereo[41] = 0
	stereo[42] = 0
	stereo[43] = 0

	samples, _, err := Decode(stereo)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(samples) != 4 {
		t.Fatalf("decoded %d frames, want 4", len(samples))
	}
	for _, s := range samples {
		if s < 0.49 || s > 0.51 {
			t.Errorf("expected left channel (+0.5), got %f", s)
		}
	}
}
