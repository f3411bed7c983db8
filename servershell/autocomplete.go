// Package servershell serves the completions of the servershell command
// line.
package servershell

import (
	"sort"
	"strings"

	"serveradmin/model"
)

// Levenshtein returns the edit distance of a and b.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// Matches reports whether candidate completes search. Searches longer than
// one character also match when a prefix of the candidate of about the
// same length is one edit away.
func Matches(candidate, search string) bool {
	if strings.HasPrefix(candidate, search) {
		return true
	}
	n := len([]rune(search))
	if n <= 1 {
		return false
	}
	runes := []rune(candidate)
	for _, l := range []int{n - 1, n, n + 1} {
		if l <= 0 || l > len(runes) {
			continue
		}
		if Levenshtein(string(runes[:l]), search) == 1 {
			return true
		}
	}
	return false
}

// Sort orders completions with the ones starting with search first, each
// group lexically.
func Sort(completions []string, search string) {
	sort.SliceStable(completions, func(i, j int) bool {
		a, b := completions[i], completions[j]
		aPrefix, bPrefix := strings.HasPrefix(a, search), strings.HasPrefix(b, search)
		if aPrefix != bPrefix {
			return aPrefix
		}
		return a < b
	})
}

// AttributeOptions restricts the attribute completions.
type AttributeOptions struct {
	Search        string
	Exclude       []string
	ExcludeMulti  bool
	ExcludeSingle bool
}

// CompleteAttributes returns the ids of the attributes matching options.
func CompleteAttributes(attributes []*model.Attribute, options AttributeOptions) []string {
	excluded := make(map[string]bool, len(options.Exclude))
	for _, id := range options.Exclude {
		excluded[id] = true
	}

	ids := []string{}
	for _, a := range attributes {
		switch {
		case excluded[a.AttributeID]:
		case options.ExcludeMulti && a.Multi:
		case options.ExcludeSingle && !a.Multi:
		case options.Search != "" && !Matches(a.AttributeID, options.Search):
		default:
			ids = append(ids, a.AttributeID)
		}
	}
	Sort(ids, options.Search)
	return ids
}

// CompleteServertypes returns the servertypes matching search.
func CompleteServertypes(servertypes []string, search string) []string {
	result := []string{}
	for _, servertype := range servertypes {
		if search == "" || Matches(servertype, search) {
			result = append(result, servertype)
		}
	}
	Sort(result, search)
	return result
}
