package snapshot

import (
	"errors"
	"io"

	"github.com/klauspost/compress/zstd"
)

// DefaultMaxDecompressedBytes is the default decompression cap for
// untrusted snapshot container files (spec §4.2/§5): 256 MiB.
const DefaultMaxDecompressedBytes = 256 << 20

// ErrSnapshotTooLarge is returned when a container's decompressed size
// would exceed the configured cap.
var ErrSnapshotTooLarge = errors.New("snapshot: decompressed size exceeds cap")

// DecodeContainer decompresses a zstd-framed snapshot container, enforcing
// maxBytes regardless of what the frame's (attacker-controlled) content-size
// header claims. A maxBytes of 0 uses DefaultMaxDecompressedBytes.
func DecodeContainer(r io.Reader, maxBytes int64) (MetaMerkleSnapshot, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxDecompressedBytes
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return MetaMerkleSnapshot{}, err
	}
	defer zr.Close()

	limited := &io.LimitedReader{R: zr, N: maxBytes + 1}
	raw, err := io.ReadAll(limited)
	if err != nil {
		return MetaMerkleSnapshot{}, err
	}
	if int64(len(raw)) > maxBytes {
		return MetaMerkleSnapshot{}, ErrSnapshotTooLarge
	}

	return Decode(raw)
}

// EncodeContainer compresses a snapshot's deterministic encoding for
// off-chain storage.
func EncodeContainer(s MetaMerkleSnapshot) ([]byte, error) {
	raw := Encode(s)
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(raw, nil), nil
}
