package seating

import (
	"fmt"
	"strings"
)

// SortField names a guest attribute usable in sort rules.
type SortField string

const (
	SortFieldName         SortField = "name"
	SortFieldCountry      SortField = "country"
	SortFieldOrganization SortField = "organization"
	SortFieldRanking      SortField = "ranking"
)

// SortDirection orders a sort field.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// SortRule is one (field, direction) entry of an ordered sort list.
type SortRule struct {
	Field     SortField
	Direction SortDirection
}

// ParseSortRule validates raw field and direction values.
func ParseSortRule(field, direction string) (SortRule, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(field)))
	switch f {
	case SortFieldName, SortFieldCountry, SortFieldOrganization, SortFieldRanking:
	default:
		return SortRule{}, fmt.Errorf("unknown sort field %q", field)
	}
	d := SortDirection(strings.ToLower(strings.TrimSpace(direction)))
	switch d {
	case "":
		d = SortAscending
	case SortAscending, SortDescending:
	default:
		return SortRule{}, fmt.Errorf("unknown sort direction %q", direction)
	}
	return SortRule{Field: f, Direction: d}, nil
}

// Comparator is a total order over guests: negative when a sorts before b.
type Comparator func(a, b *Guest) int

type fieldCompare func(a, b *Guest) int

func textField(get func(*Guest) string) fieldCompare {
	return func(a, b *Guest) int {
		return strings.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
	}
}

var fieldComparators = map[SortField]fieldCompare{
	SortFieldName:         textField(func(g *Guest) string { return g.Name }),
	SortFieldCountry:      textField(func(g *Guest) string { return g.Country }),
	SortFieldOrganization: textField(func(g *Guest) string { return g.Organization }),
	SortFieldRanking: func(a, b *Guest) int {
		switch {
		case a.Ranking < b.Ranking:
			return -1
		case a.Ranking > b.Ranking:
			return 1
		default:
			return 0
		}
	},
}

func resolveRules(rules []SortRule) []fieldCompare {
	resolved := make([]fieldCompare, 0, len(rules))
	for _, rule := range rules {
		cmp, ok := fieldComparators[rule.Field]
		if !ok {
			continue
		}
		if rule.Direction == SortDescending {
			asc := cmp
			cmp = func(a, b *Guest) int { return -asc(a, b) }
		}
		resolved = append(resolved, cmp)
	}
	return resolved
}

// NewComparator builds the rule-priority comparator: rules in order, then guest ID.
func NewComparator(rules []SortRule) Comparator {
	fields := resolveRules(rules)
	return func(a, b *Guest) int {
		for _, cmp := range fields {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID, b.ID)
	}
}

// NewPlacementComparator is NewComparator with internal guests ordered before external
// guests ahead of the ID tie-break. It is only used to order the initial placement pool.
func NewPlacementComparator(rules []SortRule) Comparator {
	fields := resolveRules(rules)
	return func(a, b *Guest) int {
		for _, cmp := range fields {
			if c := cmp(a, b); c != 0 {
				return c
			}
		}
		if a.Internal != b.Internal {
			if a.Internal {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	}
}
