package analyzer

import (
	"fmt"
	"math"

	"github.com/m-mizutani/burrow/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

// ClassifiedPoint is one input point with its assigned cluster
type ClassifiedPoint struct {
	Point    []float64 `json:"point"`
	Cluster  int       `json:"cluster"`
	Distance float64   `json:"distance_to_center"`
}

// ClusterStats describes one cluster after assignment
type ClusterStats struct {
	Center      []float64 `json:"center"`
	PointCount  int       `json:"point_count"`
	AvgDistance float64   `json:"avg_distance"`
}

// ClassifyResult assigns every point to its nearest center
type ClassifyResult struct {
	Points      []ClassifiedPoint       `json:"classification_results"`
	Centers     [][]float64             `json:"cluster_centers"`
	Clusters    map[string]ClusterStats `json:"cluster_statistics"`
	TotalPoints int                     `json:"total_points"`
	NumClusters int                     `json:"num_clusters"`
}

// Classify assigns points to their nearest center by Euclidean distance
// in the first two dimensions. Without explicit centers, two centers are
// placed at the lower and upper quartile corners of the data range.
func Classify(points [][]float64, centers [][]float64) (*ClassifyResult, error) {
	if len(points) == 0 {
		return nil, goerr.Wrap(model.ErrValidation, "no data points provided")
	}
	for i, p := range points {
		if len(p) < 2 {
			return nil, goerr.Wrap(model.ErrValidation, "data points must have at least 2 dimensions",
				goerr.V("point", i), goerr.V("dimensions", len(p)))
		}
	}

	if len(centers) == 0 {
		centers = defaultCenters(points)
	}

	classified := make([]ClassifiedPoint, 0, len(points))
	for _, p := range points {
		best, bestDist := 0, math.Inf(1)
		for i, c := range centers {
			d := euclidean(p[:2], c[:2])
			if d < bestDist {
				best, bestDist = i, d
			}
		}
		classified = append(classified, ClassifiedPoint{
			Point:    p,
			Cluster:  best,
			Distance: round3(bestDist),
		})
	}

	stats := map[string]ClusterStats{}
	for i, c := range centers {
		var count int
		var sumDist float64
		for _, cp := range classified {
			if cp.Cluster == i {
				count++
				sumDist += cp.Distance
			}
		}
		avg := 0.0
		if count > 0 {
			avg = round3(sumDist / float64(count))
		}
		stats[fmt.Sprintf("cluster_%d", i)] = ClusterStats{
			Center:      c,
			PointCount:  count,
			AvgDistance: avg,
		}
	}

	return &ClassifyResult{
		Points:      classified,
		Centers:     centers,
		Clusters:    stats,
		TotalPoints: len(classified),
		NumClusters: len(centers),
	}, nil
}

func defaultCenters(points [][]float64) [][]float64 {
	minX, maxX := points[0][0], points[0][0]
	minY, maxY := points[0][1], points[0][1]
	for _, p := range points {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}

	return [][]float64{
		{minX + (maxX-minX)*0.25, minY + (maxY-minY)*0.25},
		{minX + (maxX-minX)*0.75, minY + (maxY-minY)*0.75},
	}
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
