package lut

import (
	"fmt"
	"sort"

	"github.com/hainesm6-learning/mascpcr/internal/genome"
)

// LocateBorders builds the border table for a region from two sources:
// the boundaries of annotated segment features (filtered by types and
// label regexs) and the boundaries of edit clusters. When both sources
// claim a position the feature provenance wins
func LocateBorders(feats []genome.Feature, types, regexs []string, edges *EdgeTable) (*BorderTable, error) {
	segments, err := genome.FilterFeatures(feats, types, regexs)
	if err != nil {
		return nil, err
	}

	byPos := map[int]Border{}

	if edges != nil {
		for i, c := range edges.Clusters() {
			label := fmt.Sprintf("edit_cluster_%d", i+1)
			byPos[c.Lo] = Border{Pos: c.Lo, Source: BorderEdit, Label: label}
			byPos[c.Hi+1] = Border{Pos: c.Hi + 1, Source: BorderEdit, Label: label}
		}
	}

	for _, f := range segments {
		label := genome.FeatureLabel(f)
		byPos[f.Start] = Border{Pos: f.Start, Source: BorderFeature, Label: label}
		byPos[f.End] = Border{Pos: f.End, Source: BorderFeature, Label: label}
	}

	borders := make([]Border, 0, len(byPos))
	for _, b := range byPos {
		borders = append(borders, b)
	}
	sort.Slice(borders, func(i, j int) bool {
		return borders[i].Pos < borders[j].Pos
	})

	return &BorderTable{borders: borders}, nil
}
