package blog

// FilterState is either unfiltered or filtered by a single tag. The zero
// value is unfiltered.
type FilterState struct {
	tag    string
	active bool
}

// Unfiltered returns the empty filter.
func Unfiltered() FilterState {
	return FilterState{}
}

// FilteredBy returns a filter on tag.
func FilteredBy(tag string) FilterState {
	return FilterState{tag: tag, active: true}
}

// Activate filters by tag.
func (f *FilterState) Activate(tag string) {
	f.tag = tag
	f.active = true
}

// Clear removes the filter.
func (f *FilterState) Clear() {
	*f = FilterState{}
}

// Tag returns the active tag and whether a filter is set.
func (f FilterState) Tag() (string, bool) {
	return f.tag, f.active
}

// Apply returns the articles visible under state, in source order. When
// unfiltered the input is returned as is.
func Apply(articles []Article, state FilterState) []Article {
	tag, ok := state.Tag()
	if !ok {
		return articles
	}
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.HasTag(tag) {
			out = append(out, a)
		}
	}
	return out
}
