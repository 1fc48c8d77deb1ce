package euterpe

import (
	"errors"
	"fmt"

	"github.com/euterpe-ml/euterpe/index"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrNoSeeds is returned when none of the given seed songs exist
	// in the embedding store.
	ErrNoSeeds = errors.New("no known seed songs")

	// ErrNoTags is returned when none of the given tags resolve in
	// the vocabulary.
	ErrNoTags = errors.New("no known tags")

	// ErrScorerUnavailable is returned by scorer-backed operations
	// when no checkpoint was loaded.
	ErrScorerUnavailable = errors.New("scorer checkpoint not loaded")

	// ErrVocabularyUnavailable is returned by tag operations when no
	// tag vocabulary was loaded.
	ErrVocabularyUnavailable = errors.New("tag vocabulary not loaded")
)

// translateError unifies errors from inner packages into the engine's
// error vocabulary so callers only match against this package.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, index.ErrInvalidK) {
		return fmt.Errorf("%w: %w", ErrInvalidK, err)
	}
	return err
}
