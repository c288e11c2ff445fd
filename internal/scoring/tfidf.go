package scoring

import (
	"errors"
	"math"
	"regexp"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

var errEmptyVocabulary = errors.New("empty vocabulary; perhaps the documents only contain stop words")

func tokenize(text string) []string {
	var out []string
	for _, tok := range tokenPattern.FindAllString(text, -1) {
		if _, stop := englishStopWords[tok]; !stop {
			out = append(out, tok)
		}
	}
	return out
}

// tfidf builds smoothed, l2-normalized TF-IDF vectors over a vocabulary fit
// on exactly the given documents.
func tfidf(docs ...string) ([]map[string]float64, error) {
	counts := make([]map[string]float64, len(docs))
	df := make(map[string]float64)
	for i, d := range docs {
		counts[i] = make(map[string]float64)
		for _, tok := range tokenize(d) {
			counts[i][tok]++
		}
		for tok := range counts[i] {
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, errEmptyVocabulary
	}

	n := float64(len(docs))
	for _, vec := range counts {
		var norm float64
		for tok, tf := range vec {
			w := tf * (math.Log((1+n)/(1+df[tok])) + 1)
			vec[tok] = w
			norm += w * w
		}
		if norm == 0 {
			continue
		}
		norm = math.Sqrt(norm)
		for tok := range vec {
			vec[tok] /= norm
		}
	}
	return counts, nil
}

// cosine assumes both vectors are l2-normalized.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for tok, w := range a {
		dot += w * b[tok]
	}
	return dot
}
