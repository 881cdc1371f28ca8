package similarity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/answerly/scoring-api/internal/similarity"
)

func normalize(t *testing.T, text string) similarity.NormalizedText {
	t.Helper()
	normalizer := similarity.NewNormalizer(similarity.NormalizerConfig{})
	normalized, err := normalizer.Normalize(text)
	require.NoError(t, err)
	return normalized
}

func TestJaccardIdentity(t *testing.T) {
	text := normalize(t, "the cat sat on the mat")
	require.Equal(t, 1.0, similarity.Jaccard(text, text))
}

func TestJaccardDisjoint(t *testing.T) {
	a := normalize(t, "the cat sat on the mat")
	b := normalize(t, "dogs run in parks")
	require.Equal(t, 0.0, similarity.Jaccard(a, b))
}

func TestJaccardPartialOverlap(t *testing.T) {
	// Sets {a,b,c,d} and {a,b,x,y}: intersection 2, union 6.
	a := normalize(t, "A B C D")
	b := normalize(t, "A B X Y")
	require.InDelta(t, 2.0/6.0, similarity.Jaccard(a, b), 1e-9)
}

func TestJaccardSymmetry(t *testing.T) {
	a := normalize(t, "photosynthesis converts light into chemical energy")
	b := normalize(t, "plants use light energy")
	require.Equal(t, similarity.Jaccard(a, b), similarity.Jaccard(b, a))
}

func TestJaccardEmptySetScoresZero(t *testing.T) {
	a := normalize(t, "something")
	require.Equal(t, 0.0, similarity.Jaccard(a, similarity.NormalizedText{}))
	require.Equal(t, 0.0, similarity.Jaccard(similarity.NormalizedText{}, similarity.NormalizedText{}))
}

func TestJaccardIgnoresDuplicatesAndOrder(t *testing.T) {
	a := normalize(t, "energy energy light")
	b := normalize(t, "light energy")
	require.Equal(t, 1.0, similarity.Jaccard(a, b))
}
