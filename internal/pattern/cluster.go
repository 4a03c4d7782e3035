package pattern

import (
	"math"
	"math/rand/v2"

	"github.com/Veraticus/rota/internal/model"
)

const (
	maxClusters       = 5
	clusterSeed       = 42
	maxLloydIteration = 300
)

// Cluster groups distinct patterns by their numeric features using k-means
// with k = min(5, distinct). Fewer than two distinct patterns produce no
// clusters. Results are deterministic for the same input.
func Cluster(patterns []string) []model.Cluster {
	distinct := dedupe(patterns)
	if len(distinct) < 2 {
		return nil
	}

	points := make([][]float64, len(distinct))
	for i, p := range distinct {
		points[i] = model.Features(p).Numeric()
	}

	k := min(maxClusters, len(distinct))
	assignment := kmeans(points, k)

	members := make([][]string, k)
	for i, c := range assignment {
		members[c] = append(members[c], distinct[i])
	}

	clusters := make([]model.Cluster, 0, k)
	for id, m := range members {
		if len(m) == 0 {
			continue
		}
		clusters = append(clusters, model.Cluster{ID: id, Patterns: m})
	}
	return clusters
}

func dedupe(patterns []string) []string {
	seen := make(map[string]struct{}, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}

func kmeans(points [][]float64, k int) []int {
	centroids := seedCentroids(points, k, rand.New(rand.NewPCG(clusterSeed, 0)))
	assignment := make([]int, len(points))
	for i := range assignment {
		assignment[i] = -1
	}

	for range maxLloydIteration {
		changed := false
		for i, p := range points {
			if c := nearest(p, centroids); c != assignment[i] {
				assignment[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		recompute(points, assignment, centroids)
	}
	return assignment
}

// seedCentroids picks initial centroids with k-means++: the first uniformly,
// each next one with probability proportional to its squared distance from
// the closest centroid already chosen.
func seedCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	chosen := make(map[int]bool, k)

	first := rng.IntN(len(points))
	centroids = append(centroids, clone(points[first]))
	chosen[first] = true

	weights := make([]float64, len(points))
	for len(centroids) < k {
		total := 0.0
		for i, p := range points {
			d := squaredDistance(p, centroids[nearest(p, centroids)])
			weights[i] = d
			total += d
		}

		next := -1
		if total > 0 {
			target := rng.Float64() * total
			for i, w := range weights {
				target -= w
				if w > 0 && target <= 0 {
					next = i
					break
				}
			}
		}
		if next < 0 {
			// Remaining points coincide with existing centroids.
			for i := range points {
				if !chosen[i] {
					next = i
					break
				}
			}
		}

		centroids = append(centroids, clone(points[next]))
		chosen[next] = true
	}
	return centroids
}

func recompute(points [][]float64, assignment []int, centroids [][]float64) {
	dims := len(points[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, dims)
	}
	for i, p := range points {
		c := assignment[i]
		counts[c]++
		for d, v := range p {
			sums[c][d] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			continue
		}
		for d := range centroids[c] {
			centroids[c][d] = sums[c][d] / float64(counts[c])
		}
	}
}

func nearest(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := squaredDistance(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func squaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}

func clone(v []float64) []float64 {
	return append([]float64(nil), v...)
}
