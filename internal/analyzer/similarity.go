package analyzer

import (
	"math"
	"strings"

	"github.com/seenimoa/newslens/pkg/models"
)

// duplicateThreshold flags a source pair as near-duplicate content.
const duplicateThreshold = 0.7

// minSentenceLength filters out fragments too short to be meaningful
// when comparing sources.
const minSentenceLength = 20

// computeSimilarity builds the pairwise sentence-overlap matrix for the
// loaded source texts. Each cell is the Jaccard index of the two sources'
// sentence sets, rounded to two decimals. The diagonal is 1.0.
func computeSimilarity(texts []string) models.Similarity {
	n := len(texts)
	if n < 2 {
		return models.Similarity{UniqueContentRatio: 1.0}
	}

	sets := make([]map[string]struct{}, n)
	for i, t := range texts {
		sets[i] = sentenceSet(t)
	}

	matrix := make([][]float64, n)
	var offDiagSum float64
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			if i == j {
				matrix[i][j] = 1.0
				continue
			}
			sim := round2(jaccard(sets[i], sets[j]))
			matrix[i][j] = sim
			offDiagSum += sim
		}
	}

	avgOffDiag := offDiagSum / float64(n*(n-1))
	unique := round2(1.0 - avgOffDiag)
	if unique < 0 {
		unique = 0
	}

	duplicates := false
	for i := range matrix {
		for j := range matrix[i] {
			if i != j && matrix[i][j] > duplicateThreshold {
				duplicates = true
			}
		}
	}

	return models.Similarity{
		Matrix:             matrix,
		UniqueContentRatio: unique,
		DuplicatesFound:    duplicates,
	}
}

// sentenceSet splits text into normalized sentences long enough to compare.
func sentenceSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, s := range strings.Split(text, ".") {
		s = strings.ToLower(strings.TrimSpace(s))
		if len(s) > minSentenceLength {
			set[s] = struct{}{}
		}
	}
	return set
}

// jaccard is |A∩B| / |A∪B|, 0 for empty sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for s := range a {
		if _, ok := b[s]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
