package seating

import "sort"

// GuestPools is the prioritised candidate list for one run.
type GuestPools struct {
	Internal []*Guest
	External []*Guest
	// Combined interleaves both populations for tables without a distribution rule.
	Combined []*Guest
}

// ReferencedGuests collects every guest ID named by a proximity rule.
func ReferencedGuests(rules ProximityRules) map[string]struct{} {
	ids := make(map[string]struct{}, 2*(len(rules.SitTogether)+len(rules.SitAway)))
	for _, set := range [][]Pair{rules.SitTogether, rules.SitAway} {
		for _, pair := range set {
			ids[pair.A] = struct{}{}
			ids[pair.B] = struct{}{}
		}
	}
	return ids
}

// PrioritizeGuests orders each population so guests named by a proximity rule come
// before unconstrained guests, each group sorted independently by cmp.
func PrioritizeGuests(internal, external []*Guest, rules ProximityRules, cmp Comparator) GuestPools {
	mustInclude := ReferencedGuests(rules)
	return GuestPools{
		Internal: partitionAndSort(internal, mustInclude, cmp),
		External: partitionAndSort(external, mustInclude, cmp),
	}
}

func partitionAndSort(guests []*Guest, mustInclude map[string]struct{}, cmp Comparator) []*Guest {
	var constrained, regular []*Guest
	for _, g := range guests {
		if _, ok := mustInclude[g.ID]; ok {
			constrained = append(constrained, g)
			continue
		}
		regular = append(regular, g)
	}
	sortGuests(constrained, cmp)
	sortGuests(regular, cmp)
	out := make([]*Guest, 0, len(guests))
	out = append(out, constrained...)
	return append(out, regular...)
}

func sortGuests(guests []*Guest, cmp Comparator) {
	sort.SliceStable(guests, func(i, j int) bool {
		return cmp(guests[i], guests[j]) < 0
	})
}

// buildPools prepares the candidate pools for initial placement. Deleted guests, duplicates
// and guests already sitting on a locked seat are excluded.
func buildPools(internal, external []Guest, rules ProximityRules, rulesOrder []SortRule, lockedGuests map[string]string) GuestPools {
	seen := make(map[string]struct{}, len(internal)+len(external))
	collect := func(src []Guest, wantInternal bool) []*Guest {
		out := make([]*Guest, 0, len(src))
		for i := range src {
			g := src[i]
			if g.ID == "" || g.Deleted {
				continue
			}
			if _, dup := seen[g.ID]; dup {
				continue
			}
			if _, locked := lockedGuests[g.ID]; locked {
				continue
			}
			seen[g.ID] = struct{}{}
			g.Internal = wantInternal
			out = append(out, &g)
		}
		return out
	}
	internalGuests := collect(internal, true)
	externalGuests := collect(external, false)

	pools := PrioritizeGuests(internalGuests, externalGuests, rules, NewComparator(rulesOrder))

	all := make([]*Guest, 0, len(internalGuests)+len(externalGuests))
	all = append(all, internalGuests...)
	all = append(all, externalGuests...)
	pools.Combined = partitionAndSort(all, ReferencedGuests(rules), NewPlacementComparator(rulesOrder))
	return pools
}
