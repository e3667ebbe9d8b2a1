package wfs

import "testing"

func TestCompressNoneIsPassthrough(t *testing.T) {
	data := []byte("hello")
	out, alg, err := compressPayload(CompressionNone, data)
	if err != nil {
		t.Fatalf("compressPayload: %s", err)
	}
	if alg != CompressionNone || string(out) != string(data) {
		t.Errorf("expected passthrough, got alg=%v out=%q", alg, out)
	}

	back, err := decompressPayload(CompressionNone, out, uint64(len(data)))
	if err != nil {
		t.Fatalf("decompressPayload: %s", err)
	}
	if string(back) != string(data) {
		t.Errorf("round trip mismatch: got %q, want %q", back, data)
	}
}

func TestCompressUnregisteredAlgorithmFallsBackToNone(t *testing.T) {
	data := []byte("payload")
	out, alg, err := compressPayload(CompressionAlgorithm(99), data)
	if err != nil {
		t.Fatalf("compressPayload: %s", err)
	}
	if alg != CompressionNone {
		t.Errorf("expected fallback to CompressionNone, got %v", alg)
	}
	if string(out) != string(data) {
		t.Errorf("expected unchanged data, got %q", out)
	}
}

func TestCompressionAlgorithmString(t *testing.T) {
	if CompressionNone.String() != "none" {
		t.Errorf("CompressionNone.String() = %q", CompressionNone.String())
	}
	if CompressionZstd.String() != "zstd" {
		t.Errorf("CompressionZstd.String() = %q", CompressionZstd.String())
	}
}
