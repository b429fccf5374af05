// Package catalog is the fixed list of exercises shipped with the
// collection. Every category holds a buggy program, its corrected twin and
// a test suite exercising the corrected behaviour.
package catalog

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Exercise is one runnable binary target.
type Exercise struct {
	Name    string `json:"name" yaml:"name"`
	Fixed   bool   `json:"fixed" yaml:"fixed"`
	Summary string `json:"summary" yaml:"summary"`
}

// Category groups the buggy and fixed variants of one topic.
type Category struct {
	// Key is the test filter accepted by `test <category>`.
	Key string `json:"key" yaml:"key"`
	// Dir is the directory under exercises/ holding the sources.
	Dir       string     `json:"dir" yaml:"dir"`
	Suite     string     `json:"suite" yaml:"suite"`
	Exercises []Exercise `json:"exercises" yaml:"exercises"`
}

// Title is the display name derived from Dir, e.g. "Memory Management".
func (c Category) Title() string {
	return cases.Title(language.English).String(strings.ReplaceAll(c.Dir, "_", " "))
}

var categories = []Category{
	{
		Key:   "ownership",
		Dir:   "ownership_borrowing",
		Suite: "ownership_tests",
		Exercises: []Exercise{
			{Name: "ownership_basics", Summary: "moves, borrows and clones gone wrong"},
			{Name: "ownership_basics_fixed", Fixed: true, Summary: "ownership rules applied correctly"},
		},
	},
	{
		Key:   "error_handling",
		Dir:   "error_handling",
		Suite: "error_handling_tests",
		Exercises: []Exercise{
			{Name: "error_handling_basics", Summary: "unwrap, expect and swallowed errors"},
			{Name: "error_handling_basics_fixed", Fixed: true, Summary: "errors propagated and handled"},
		},
	},
	{
		Key:   "concurrency",
		Dir:   "concurrency",
		Suite: "concurrency_tests",
		Exercises: []Exercise{
			{Name: "concurrency_basics", Summary: "data races, deadlocks and leaked threads"},
			{Name: "concurrency_basics_fixed", Fixed: true, Summary: "shared state behind locks and channels"},
		},
	},
	{
		Key:   "memory_management",
		Dir:   "memory_management",
		Suite: "memory_management_tests",
		Exercises: []Exercise{
			{Name: "memory_management", Summary: "reference cycles and leaks"},
			{Name: "memory_management_fixed", Fixed: true, Summary: "weak references and scoped lifetimes"},
		},
	},
	{
		Key:   "performance",
		Dir:   "performance",
		Suite: "performance_tests",
		Exercises: []Exercise{
			{Name: "performance_optimization", Summary: "needless allocation and copying"},
			{Name: "performance_optimization_fixed", Fixed: true, Summary: "preallocation and borrowing"},
		},
	},
}

// Categories returns a copy of the catalog in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	for i, c := range categories {
		c.Exercises = append([]Exercise(nil), c.Exercises...)
		out[i] = c
	}
	return out
}

// Exercises returns every exercise name, sorted.
func Exercises() []string {
	var names []string
	for _, c := range categories {
		for _, e := range c.Exercises {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)
	return names
}

// Lookup finds an exercise and the category it belongs to.
func Lookup(name string) (Exercise, Category, bool) {
	for _, c := range categories {
		for _, e := range c.Exercises {
			if e.Name == name {
				return e, c, true
			}
		}
	}
	return Exercise{}, Category{}, false
}

// CategoryFor finds a category by its test filter key or directory name.
func CategoryFor(key string) (Category, bool) {
	for _, c := range categories {
		if c.Key == key || c.Dir == key {
			return c, true
		}
	}
	return Category{}, false
}

// maxSuggestDistance bounds how different a suggestion may be.
const maxSuggestDistance = 4

// Suggest returns the exercise closest to name by edit distance, or "" if
// nothing is close enough. Ties resolve to the alphabetically first name.
func Suggest(name string) string {
	best, bestDist := "", maxSuggestDistance+1
	needle := strings.ToLower(name)

	for _, candidate := range Exercises() {
		d := levenshtein(needle, candidate)
		if d < bestDist {
			best, bestDist = candidate, d
		}
	}

	return best
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
