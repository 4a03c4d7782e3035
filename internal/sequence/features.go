package sequence

import "math"

// Feature layout: one-hot token per position, token histogram, token bigram
// counts. Each group is scaled by the sequence length so long and short
// sequences train at a comparable rate. Padding contributes nothing.
const (
	positionalFeatures = MaxLength * vocabulary
	histogramOffset    = positionalFeatures
	bigramOffset       = histogramOffset + vocabulary
	featureCount       = bigramOffset + vocabulary*vocabulary
)

type feature struct {
	index int
	value float64
}

func extract(padded []int) []feature {
	length := 0
	for _, v := range padded {
		if v != TokenPad {
			length++
		}
	}
	if length == 0 {
		return nil
	}

	features := make([]feature, 0, 2*length+vocabulary)
	positional := 1 / math.Sqrt(float64(length))
	counts := make([]int, vocabulary)
	bigrams := make([]int, vocabulary*vocabulary)
	for pos, v := range padded {
		if v == TokenPad {
			continue
		}
		features = append(features, feature{index: pos*vocabulary + v, value: positional})
		counts[v]++
		if pos > 0 && padded[pos-1] != TokenPad {
			bigrams[padded[pos-1]*vocabulary+v]++
		}
	}

	for v, n := range counts {
		if n > 0 {
			features = append(features, feature{index: histogramOffset + v, value: float64(n) / float64(length)})
		}
	}
	for pair, n := range bigrams {
		if n > 0 {
			features = append(features, feature{index: bigramOffset + pair, value: float64(n) / float64(length)})
		}
	}
	return features
}
