package genome

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultBorderFeatureTypes are the annotation types treated as segment
// borders when no explicit type list is given
var DefaultBorderFeatureTypes = []string{"synthetic_fragment", "fragment"}

// FilterFeatures returns the features whose type matches one of types
// (case-insensitive) or whose label/note qualifier matches one of the
// regexs. With neither filter set, DefaultBorderFeatureTypes applies
func FilterFeatures(feats []Feature, types []string, regexs []string) ([]Feature, error) {
	if len(types) == 0 && len(regexs) == 0 {
		types = DefaultBorderFeatureTypes
	}

	wantType := map[string]bool{}
	for _, t := range types {
		wantType[strings.ToLower(t)] = true
	}

	var patterns []*regexp.Regexp
	for _, r := range regexs {
		p, err := regexp.Compile(r)
		if err != nil {
			return nil, fmt.Errorf("invalid border feature regex %q: %w", r, err)
		}
		patterns = append(patterns, p)
	}

	var kept []Feature
	for _, f := range feats {
		if wantType[strings.ToLower(f.Type)] {
			kept = append(kept, f)
			continue
		}
		label := FeatureLabel(f)
		for _, p := range patterns {
			if p.MatchString(label) {
				kept = append(kept, f)
				break
			}
		}
	}

	return kept, nil
}

// FeatureLabel returns a feature's display name, preferring the label
// qualifier, then gene, then note, then the feature type
func FeatureLabel(f Feature) string {
	for _, q := range []string{"label", "gene", "note"} {
		if v, ok := f.Qualifiers[q]; ok && v != "" {
			return v
		}
	}
	return f.Type
}
