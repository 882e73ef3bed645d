package wire

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		nil,
		{},
		[]byte("plain text"),
		{0x00, 0xff, 0x10, 0x80},
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 8; i++ {
		buf := make([]byte, rng.Intn(512))
		rng.Read(buf)
		cases = append(cases, buf)
	}

	for _, in := range cases {
		out, err := Decode(Encode(in))
		if err != nil {
			t.Fatalf("Decode(Encode(%d bytes)): %v", len(in), err)
		}
		if !bytes.Equal(in, out) {
			t.Fatalf("round trip mismatch for %d bytes", len(in))
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, text := range []string{"!!!", "a", "####", "AAA=AAA"} {
		if _, err := Decode(text); !errors.Is(err, ErrMalformedText) {
			t.Fatalf("Decode(%q): expected ErrMalformedText, got %v", text, err)
		}
	}
}
