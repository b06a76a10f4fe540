package call

// Policy is a behavior-modifying tag attached to a registered callable. The
// policy set is declared once at registration and never re-evaluated per
// call. Only the return-handling tags are meaningful to the bridge.
type Policy uint8

const (
	// ReturnCopy pushes an independent copy of a user-defined return value.
	// The scripting side never observes a dangling reference to a native
	// temporary. This is the default.
	ReturnCopy Policy = iota + 1

	// ReturnRef pushes a live reference to the returned native object
	// instead of copying it. The function author guarantees the referenced
	// object outlives every use of the reference on the scripting side.
	ReturnRef
)

func (p Policy) String() string {
	switch p {
	case ReturnCopy:
		return "return_copy"
	case ReturnRef:
		return "return_ref"
	}
	return "unknown"
}

// choosePolicy scans the declared policy set left to right. The first
// return-handling tag found wins; an empty or unmatched set selects
// ReturnCopy. Policies are not composable for return handling.
func choosePolicy(set []Policy) Policy {
	for _, p := range set {
		switch p {
		case ReturnCopy, ReturnRef:
			return p
		}
	}
	return ReturnCopy
}
