package nostr

// Filter narrows a fetch. Empty fields mean "any".
type Filter struct {
	IDs     []string `json:"ids,omitempty"`
	Kinds   []int    `json:"kinds,omitempty"`
	Authors []string `json:"authors,omitempty"`
	// DTags matches the d tag of replaceable events.
	DTags []string `json:"#d,omitempty"`
	// AddrRefs matches a tags, i.e. references to replaceable addresses.
	AddrRefs []string `json:"#a,omitempty"`
	// EventRefs matches e tags, i.e. references to event ids.
	EventRefs []string `json:"#e,omitempty"`
	// PTags matches p tags, used for maintainer membership.
	PTags []string `json:"#p,omitempty"`
	Limit int      `json:"limit,omitempty"`
}

// Matches reports whether an event satisfies the filter. Relay-side filtering
// is advisory; repositories re-check locally with this.
func (f Filter) Matches(e *Event) bool {
	if len(f.IDs) > 0 && !containsStr(f.IDs, e.ID) {
		return false
	}
	if len(f.Kinds) > 0 && !containsInt(f.Kinds, e.Kind) {
		return false
	}
	if len(f.Authors) > 0 && !containsStr(f.Authors, e.PubKey) {
		return false
	}
	if len(f.DTags) > 0 && !containsStr(f.DTags, e.D()) {
		return false
	}
	if len(f.AddrRefs) > 0 && !matchesAnyTag(e.Tags, "a", f.AddrRefs) {
		return false
	}
	if len(f.EventRefs) > 0 && !matchesAnyTag(e.Tags, "e", f.EventRefs) {
		return false
	}
	if len(f.PTags) > 0 && !matchesAnyTag(e.Tags, "p", f.PTags) {
		return false
	}
	return true
}

func matchesAnyTag(tags Tags, name string, wanted []string) bool {
	for _, t := range tags.FindAll(name) {
		if containsStr(wanted, t.Value()) {
			return true
		}
	}
	return false
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
}
