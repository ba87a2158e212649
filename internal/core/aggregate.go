package core

// Selection is the category filter: either no category or exactly one.
// The zero value is NoSelection.
type Selection struct {
	category Category
	set      bool
}

// NoSelection is the empty filter.
var NoSelection = Selection{}

// Select returns a selection of c.
func Select(c Category) Selection {
	return Selection{category: c, set: true}
}

// Category returns the selected category and whether one is set.
func (s Selection) Category() (Category, bool) {
	return s.category, s.set
}

// IsSet reports whether a category is selected.
func (s Selection) IsSet() bool {
	return s.set
}

// Toggle clears the selection when c is already selected, otherwise selects c.
func (s Selection) Toggle(c Category) Selection {
	if s.set && s.category == c {
		return NoSelection
	}
	return Select(c)
}

// Clear returns NoSelection.
func (s Selection) Clear() Selection {
	return NoSelection
}

// Matches reports whether r is visible under the selection.
func (s Selection) Matches(r WorkerRecord) bool {
	return !s.set || r.Category == s.category
}

// String returns the selected category, or "" when none is set.
func (s Selection) String() string {
	if !s.set {
		return ""
	}
	return string(s.category)
}

// Counts tallies records per canonical category.
//
// With a selection set, only records of that category are counted, so at most
// one entry is non-zero. The result always lists every canonical category in
// canonical order, including zeros, so a chart axis never reorders.
func Counts(records []WorkerRecord, sel Selection) CategoryCounts {
	out := make(CategoryCounts, len(canon))
	index := make(map[Category]int, len(canon))
	for i, c := range canon {
		out[i] = CategoryCount{Category: c}
		index[c] = i
	}

	for _, r := range records {
		if !sel.Matches(r) {
			continue
		}
		i, ok := index[r.Category]
		if !ok {
			i = index[FallbackCategory]
		}
		out[i].Count++
	}
	return out
}

// Filter returns the records visible under sel, in order.
func Filter(records []WorkerRecord, sel Selection) []WorkerRecord {
	if !sel.IsSet() {
		out := make([]WorkerRecord, len(records))
		copy(out, records)
		return out
	}
	out := make([]WorkerRecord, 0)
	for _, r := range records {
		if sel.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
