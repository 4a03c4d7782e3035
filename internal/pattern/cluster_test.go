package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCluster_TooFewPatterns(t *testing.T) {
	assert.Empty(t, Cluster(nil))
	assert.Empty(t, Cluster([]string{"M-M-RD"}))
	assert.Empty(t, Cluster([]string{"M-M-RD", "M-M-RD", ""}))
}

func TestCluster_TwoDistinctPatterns(t *testing.T) {
	clusters := Cluster([]string{"M-M-M-M-M-RD-RD", "N-N-N-RD"})

	require.Len(t, clusters, 2)
	assert.Equal(t, 0, clusters[0].ID)
	assert.Equal(t, 1, clusters[1].ID)
	assert.Len(t, clusters[0].Patterns, 1)
	assert.Len(t, clusters[1].Patterns, 1)
}

func TestCluster_AssignsEveryPatternOnce(t *testing.T) {
	patterns := []string{
		"M-M-M-M-M-RD-RD",
		"M-M-M-M-RD-RD-RD",
		"M-M-M-M-M-M-RD",
		"N-N-N-N-RD-RD-RD",
		"N-N-N-N-N-RD-RD",
		"A-A-A-A-A-RD-RD",
		"A-A-A-A-A-A-RD",
		"M-A-N-RD-M-A-N",
		"M-M-RD",
		"M-M-M-M-M-RD-RD",
	}

	clusters := Cluster(patterns)
	require.NotEmpty(t, clusters)
	assert.LessOrEqual(t, len(clusters), 5)

	seen := map[string]int{}
	lastID := -1
	for _, c := range clusters {
		assert.Greater(t, c.ID, lastID)
		lastID = c.ID
		assert.NotEmpty(t, c.Patterns)
		for _, p := range c.Patterns {
			seen[p]++
		}
	}

	assert.Len(t, seen, 9)
	for p, n := range seen {
		assert.Equal(t, 1, n, p)
	}
}

func TestCluster_Deterministic(t *testing.T) {
	patterns := []string{
		"M-M-M-M-M-RD-RD", "N-N-N-N-RD-RD-RD", "A-A-A-A-A-A-RD",
		"M-A-N-RD-M-A-N", "M-M-RD", "N-N-RD", "A-RD-A-RD",
	}

	assert.Equal(t, Cluster(patterns), Cluster(patterns))
}

func TestCluster_IdenticalFeatures(t *testing.T) {
	// Both patterns share every numeric feature, so they cannot be separated.
	clusters := Cluster([]string{"M-A-RD", "A-M-RD"})

	require.Len(t, clusters, 1)
	assert.ElementsMatch(t, []string{"M-A-RD", "A-M-RD"}, clusters[0].Patterns)
}
