package loader

import "errors"

const (
	// embeddingMagic identifies embedding matrix files (ASCII: "EUVE").
	embeddingMagic = 0x45555645
	// embeddingVersion is the current embedding file format version.
	embeddingVersion = 1

	// checkpointMagic identifies scorer checkpoint files (ASCII: "EUSC").
	checkpointMagic = 0x45555343
	// checkpointVersion is the current checkpoint format version.
	checkpointVersion = 1

	// maxEmbeddingCount and maxEmbeddingDim bound the header fields of
	// an embedding file so a truncated or hostile header cannot drive
	// a huge allocation before the payload read fails.
	maxEmbeddingCount = 100_000_000
	maxEmbeddingDim   = 16_384
)

var (
	ErrInvalidMagic   = errors.New("invalid magic number")
	ErrInvalidVersion = errors.New("unsupported version")
	ErrCorruptFile    = errors.New("corrupt artifact file")
)

// embeddingHeader is the fixed-size header at the start of every
// embedding matrix file. All multi-byte fields are little-endian.
type embeddingHeader struct {
	Magic     uint32
	Version   uint16
	Padding   uint16
	Count     uint32
	Dimension uint32
}
