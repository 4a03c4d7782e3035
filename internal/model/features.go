package model

// FeatureVector summarises a pattern string. It is derived on demand and never cached.
type FeatureVector struct {
	First       string
	Last        string
	Length      int
	RestDays    int
	Mornings    int
	Afternoons  int
	Nights      int
	Transitions int
}

// Features extracts the feature vector of a pattern string.
func Features(pattern string) FeatureVector {
	parts := SplitPattern(pattern)

	fv := FeatureVector{
		Length: len(parts),
		First:  parts[0],
		Last:   parts[len(parts)-1],
	}

	for i, p := range parts {
		switch ShiftLabel(p) {
		case LabelRestDay:
			fv.RestDays++
		case LabelMorning:
			fv.Mornings++
		case LabelAfternoon:
			fv.Afternoons++
		case LabelNight:
			fv.Nights++
		}
		if i > 0 && p != parts[i-1] {
			fv.Transitions++
		}
	}

	return fv
}

// Numeric returns the six numeric fields in a fixed order, as used for clustering.
func (f FeatureVector) Numeric() []float64 {
	return []float64{
		float64(f.Length),
		float64(f.RestDays),
		float64(f.Mornings),
		float64(f.Afternoons),
		float64(f.Nights),
		float64(f.Transitions),
	}
}
