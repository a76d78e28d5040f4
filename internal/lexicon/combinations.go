package lexicon

// CombinationLibrary maps a normalized compound key to the ordered
// components it decomposes into. Keys keep lexicon order so that ties in
// best-key selection resolve to the earliest line.
type CombinationLibrary struct {
	keys       []string
	components map[string][]string
}

// NewCombinations builds a library from lex. A repeated key keeps its first
// position and takes the components of its last line.
func NewCombinations(lex *Lexicon, n Normalizer) *CombinationLibrary {
	cl := &CombinationLibrary{components: make(map[string][]string)}

	for _, entry := range lex.Entries() {
		key := n.Normalize(entry.Key)
		if key == "" || len(entry.Values) == 0 {
			continue
		}
		if _, ok := cl.components[key]; !ok {
			cl.keys = append(cl.keys, key)
		}
		cl.components[key] = append([]string(nil), entry.Values...)
	}

	return cl
}

// Keys returns the compound keys in lexicon order.
func (cl *CombinationLibrary) Keys() []string {
	if cl == nil {
		return nil
	}
	return cl.keys
}

// Components returns the components of key, or nil when key is unknown.
func (cl *CombinationLibrary) Components(key string) []string {
	if cl == nil {
		return nil
	}
	return cl.components[key]
}

// Len returns the number of compound keys.
func (cl *CombinationLibrary) Len() int {
	if cl == nil {
		return 0
	}
	return len(cl.keys)
}

// Stats summarises a loaded lexicon for reporting.
type Stats struct {
	Path    string `json:"path,omitempty"`
	Entries int    `json:"entries"`
	Keys    int    `json:"keys"`
	Values  int    `json:"values"`
	Skipped int    `json:"skipped"`
	Missing bool   `json:"missing,omitempty"`
}

// StatsOf counts the entries and values of a load result.
func StatsOf(r LoadResult) Stats {
	s := Stats{
		Path:    r.Path,
		Entries: r.Lexicon.Len(),
		Skipped: len(r.Issues),
		Missing: r.Missing,
	}
	keys := make(map[string]bool)
	for _, e := range r.Lexicon.Entries() {
		keys[e.Key] = true
		s.Values += len(e.Values)
	}
	s.Keys = len(keys)
	return s
}
