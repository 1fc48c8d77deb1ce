package core

// SongID is the external, catalog-assigned identifier of a song.
// IDs are arbitrary integers and not necessarily contiguous.
type SongID int64

// Row is a dense, internal row index into the embedding matrix.
// It is strictly 32-bit, allowing for max 4 billion songs per store.
// Used for all hot-path structures (score buffers, bitmaps, heaps).
type Row uint32

// MaxRow is the maximum possible value for a Row.
const MaxRow = ^Row(0)
