package core

// ScoredSong is one entry of a ranked candidate list: a song and its
// similarity score. Scores are raw inner products, not probabilities;
// they are comparable only within a single ranked list, never across
// scoring strategies or calls.
type ScoredSong struct {
	ID    SongID
	Score float32
}
