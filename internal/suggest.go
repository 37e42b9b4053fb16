package internal

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// AliasSuggestion is a group of station spellings that probably name the same
// station or brand
type AliasSuggestion struct {
	Prefix   string
	Pattern  string
	Names    []string
	Fuelings int
}

// SuggestStationAliases finds station names sharing a leading word (or, for
// names without spaces, a leading run of characters), ignoring case.
// Only groups of two or more distinct spellings are suggested.
func SuggestStationAliases(doc *Document) []AliasSuggestion {
	usage := StationUsage(doc)
	counts := make(map[string]int, len(usage))
	var names []string
	for _, sc := range usage {
		counts[sc.Name] = sc.Count
		names = append(names, sc.Name)
	}

	suggestions := deduplicateSuggestions(findPrefixGroups(names, counts))

	sort.SliceStable(suggestions, func(i, j int) bool {
		if suggestions[i].Fuelings != suggestions[j].Fuelings {
			return suggestions[i].Fuelings > suggestions[j].Fuelings
		}
		return suggestions[i].Prefix < suggestions[j].Prefix
	})
	return suggestions
}

// findPrefixGroups groups station names by common case-folded prefixes
func findPrefixGroups(names []string, counts map[string]int) []AliasSuggestion {
	fold := cases.Fold()
	wordPrefixes := make(map[string][]string) // preferred
	charPrefixes := make(map[string][]string) // fallback

	for _, name := range names {
		words := strings.Fields(name)
		if len(words) == 0 {
			continue
		}
		if first := words[0]; len([]rune(first)) >= 3 {
			key := fold.String(first)
			wordPrefixes[key] = append(wordPrefixes[key], name)
		}
		if len(words) == 1 {
			runes := []rune(fold.String(name))
			for _, prefixLen := range []int{4, 6} {
				if len(runes) > prefixLen {
					key := string(runes[:prefixLen])
					charPrefixes[key] = append(charPrefixes[key], name)
				}
			}
		}
	}

	var groups []AliasSuggestion
	seen := make(map[string]bool)
	add := func(prefixes map[string][]string, wholeWord bool) {
		keys := make([]string, 0, len(prefixes))
		for k := range prefixes {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if len(keys[i]) != len(keys[j]) {
				return len(keys[i]) < len(keys[j])
			}
			return keys[i] < keys[j]
		})

		for _, prefix := range keys {
			unique := uniqueStrings(prefixes[prefix])
			if len(unique) < 2 {
				continue
			}

			sorted := make([]string, len(unique))
			copy(sorted, unique)
			sort.Strings(sorted)
			key := strings.Join(sorted, "|")
			if seen[key] {
				continue
			}
			seen[key] = true

			fuelings := 0
			for _, n := range unique {
				fuelings += counts[n]
			}
			groups = append(groups, AliasSuggestion{
				Prefix:   unique[0], // most used spelling names the group
				Pattern:  generatePattern(prefix, wholeWord),
				Names:    unique,
				Fuelings: fuelings,
			})
		}
	}
	add(wordPrefixes, true)
	add(charPrefixes, false)
	return groups
}

// generatePattern creates a case-insensitive-ready regex from a prefix
func generatePattern(prefix string, wholeWord bool) string {
	pattern := "^" + regexp.QuoteMeta(prefix)
	if wholeWord {
		pattern += `\b`
	}
	return pattern
}

// deduplicateSuggestions keeps the first suggestion covering a set of names and
// drops later ones that add less than half new names
func deduplicateSuggestions(suggestions []AliasSuggestion) []AliasSuggestion {
	var result []AliasSuggestion
	covered := make(map[string]bool)
	for _, s := range suggestions {
		newNames := 0
		for _, name := range s.Names {
			if !covered[name] {
				newNames++
			}
		}
		if float64(newNames)/float64(len(s.Names)) > 0.5 {
			result = append(result, s)
			for _, name := range s.Names {
				covered[name] = true
			}
		}
	}
	return result
}

func uniqueStrings(strs []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

// PrintAliasSuggestions displays suggested station aliases as config snippets
func PrintAliasSuggestions(w io.Writer, suggestions []AliasSuggestion) {
	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No station alias suggestions found.")
		return
	}

	fmt.Fprintf(w, "Found %d potential station alias(es):\n\n", len(suggestions))

	for _, s := range suggestions {
		fmt.Fprintf(w, "  %q (%d fuelings)\n", s.Prefix, s.Fuelings)
		fmt.Fprintf(w, "    Names: %s\n", strings.Join(truncateStrings(s.Names, 3), ", "))
		if len(s.Names) > 3 {
			fmt.Fprintf(w, "           ... and %d more\n", len(s.Names)-3)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, "    Add to config:")
		fmt.Fprintf(w, "      - name: %q\n", s.Prefix)
		fmt.Fprintln(w, "        patterns:")
		fmt.Fprintf(w, "          - %q\n", s.Pattern)
		fmt.Fprintln(w)
	}
}

func truncateStrings(strs []string, n int) []string {
	if len(strs) <= n {
		return strs
	}
	return strs[:n]
}
