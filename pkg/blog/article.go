// Package blog implements the blog panel: a tag index derived from the
// article collection, the active tag filter, the controller that renders the
// tag chooser and card list, and the modal article viewer.
package blog

// Article is one blog entry as listed in the blog index.
type Article struct {
	File    string   `json:"file"`    // Identifier and article file name for full-text retrieval
	Title   string   `json:"title"`   // Display title
	Date    string   `json:"date"`    // Display date, never parsed
	Excerpt string   `json:"excerpt"` // Card summary
	Tags    []string `json:"tags"`    // Tag keys, unique within the article
}

// HasTag reports whether the article carries tag. Comparison is on the raw
// key.
func (a Article) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// normalize drops repeated tags within each article, keeping the first
// occurrence.
func normalize(articles []Article) []Article {
	out := make([]Article, len(articles))
	for i, a := range articles {
		seen := make(map[string]struct{}, len(a.Tags))
		tags := make([]string, 0, len(a.Tags))
		for _, t := range a.Tags {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			tags = append(tags, t)
		}
		a.Tags = tags
		out[i] = a
	}
	return out
}
