package lexicon

// Normalizer maps a raw lexicon word to the key space of the matcher.
type Normalizer interface {
	Normalize(raw string) string
}

// SynonymMap maps a normalized value to its known alternate spellings.
// It is read-only once built and safe for concurrent use.
type SynonymMap struct {
	aliases map[string][]string
	groups  int
}

// NewSynonyms indexes every entry as a group {key, values...}. Each member of
// a group expands to all the others, so an alias finds its key as well as
// the key finding its aliases.
func NewSynonyms(lex *Lexicon, n Normalizer) *SynonymMap {
	sm := &SynonymMap{aliases: make(map[string][]string)}

	for _, entry := range lex.Entries() {
		group := make([]string, 0, len(entry.Values)+1)
		seen := make(map[string]bool, len(entry.Values)+1)
		for _, word := range append([]string{entry.Key}, entry.Values...) {
			word = n.Normalize(word)
			if word == "" || seen[word] {
				continue
			}
			seen[word] = true
			group = append(group, word)
		}
		if len(group) < 2 {
			continue
		}

		sm.groups++
		for _, member := range group {
			for _, other := range group {
				if other != member {
					sm.add(member, other)
				}
			}
		}
	}

	return sm
}

func (sm *SynonymMap) add(key, alias string) {
	for _, existing := range sm.aliases[key] {
		if existing == alias {
			return
		}
	}
	sm.aliases[key] = append(sm.aliases[key], alias)
}

// Aliases returns the alternate spellings of value, excluding value itself.
func (sm *SynonymMap) Aliases(value string) []string {
	if sm == nil {
		return nil
	}
	return sm.aliases[value]
}

// Expand returns the candidate set for value: value first, then its aliases
// in lexicon order. The value is always present, even when unknown.
func (sm *SynonymMap) Expand(value string) []string {
	aliases := sm.Aliases(value)
	candidates := make([]string, 0, len(aliases)+1)
	candidates = append(candidates, value)
	return append(candidates, aliases...)
}

// Len returns the number of distinct values that have aliases.
func (sm *SynonymMap) Len() int {
	if sm == nil {
		return 0
	}
	return len(sm.aliases)
}

// Groups returns the number of lexicon entries that produced aliases.
func (sm *SynonymMap) Groups() int {
	if sm == nil {
		return 0
	}
	return sm.groups
}
