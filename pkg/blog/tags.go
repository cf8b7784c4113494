package blog

import (
	"sort"
	"unicode"
	"unicode/utf8"
)

// TagUniverse is the set of tags present across an article collection.
type TagUniverse map[string]struct{}

// BuildTagUniverse collects every tag of every article.
func BuildTagUniverse(articles []Article) TagUniverse {
	u := make(TagUniverse)
	for _, a := range articles {
		for _, t := range a.Tags {
			u[t] = struct{}{}
		}
	}
	return u
}

// Contains reports whether tag is in the universe.
func (u TagUniverse) Contains(tag string) bool {
	_, ok := u[tag]
	return ok
}

// Len returns the number of distinct tags.
func (u TagUniverse) Len() int {
	return len(u)
}

// Sorted returns the tags in ascending order.
func (u TagUniverse) Sorted() []string {
	out := make([]string, 0, len(u))
	for t := range u {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// DisplayTag capitalizes the first character of a tag key for display.
func DisplayTag(tag string) string {
	r, size := utf8.DecodeRuneInString(tag)
	if r == utf8.RuneError {
		return tag
	}
	return string(unicode.ToUpper(r)) + tag[size:]
}
