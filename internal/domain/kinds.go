package domain

// Record kinds. Boards and cards are replaceable records addressed by
// kind:pubkey:d; tracked items and their status trail are plain events.
const (
	KindBoard = 30301
	KindCard  = 30302

	KindTrackedIssue = 1621
	KindTrackedPatch = 1617

	KindStatusOpen     = 1630
	KindStatusResolved = 1631
	KindStatusClosed   = 1632
	KindStatusDraft    = 1633
)

// Tracked item status labels.
const (
	StatusOpen     = "Open"
	StatusResolved = "Resolved"
	StatusMerged   = "Merged"
	StatusClosed   = "Closed"
	StatusDraft    = "Draft"
)

// IsTrackableKind reports whether a kind can back a tracked card.
func IsTrackableKind(kind int) bool {
	return kind == KindCard || kind == KindTrackedIssue || kind == KindTrackedPatch
}

// IsStatusKind reports whether a kind belongs to the status trail.
func IsStatusKind(kind int) bool {
	return kind >= KindStatusOpen && kind <= KindStatusDraft
}

// StatusLabel maps a status event kind to a display label. The resolved kind
// reads "Merged" for patches and "Resolved" for everything else. Unknown
// kinds and a missing status trail both mean Open.
func StatusLabel(statusKind int, trackedKind int) string {
	switch statusKind {
	case KindStatusResolved:
		if trackedKind == KindTrackedPatch {
			return StatusMerged
		}
		return StatusResolved
	case KindStatusClosed:
		return StatusClosed
	case KindStatusDraft:
		return StatusDraft
	default:
		return StatusOpen
	}
}
