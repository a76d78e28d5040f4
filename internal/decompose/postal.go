//go:build libpostal

package decompose

import (
	postal "github.com/openvenues/gopostal/parser"
)

// PostalSplitter splits address values into the components libpostal
// parses out of them. Values with fewer than MinComponents labelled parts
// are left alone.
type PostalSplitter struct {
	MinComponents int
	// Labels restricts the components that are emitted; empty keeps all.
	Labels map[string]bool
}

// NewPostalSplitter emits road, house, suburb and city parts of values that
// parse into at least two of them.
func NewPostalSplitter() *PostalSplitter {
	return &PostalSplitter{
		MinComponents: 2,
		Labels: map[string]bool{
			"house":         true,
			"road":          true,
			"suburb":        true,
			"city_district": true,
			"city":          true,
		},
	}
}

// Split parses value with libpostal.
func (ps *PostalSplitter) Split(localDebug bool, value string) (Split, bool) {
	var components []string
	for _, c := range postal.ParseAddress(value) {
		if len(ps.Labels) > 0 && !ps.Labels[c.Label] {
			continue
		}
		components = append(components, c.Value)
	}
	if len(components) < ps.MinComponents {
		return Split{}, false
	}

	return Split{Key: value, Score: 1.0, Components: components}, true
}
