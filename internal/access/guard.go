package access

// Owned is implemented by every entity that has an author.
type Owned interface {
	OwnerID() uint
}

// Denial reasons.
const (
	ReasonAnonymous = "caller is not authenticated"
	ReasonNotOwner  = "caller is not the author"
)

// Decision is the outcome of an ownership check.
type Decision struct {
	Allowed bool
	Reason  string
}

// AuthorizeMutation allows a mutation only when the caller is authenticated and is the
// entity's author. It never touches storage.
func AuthorizeMutation(caller Caller, entity Owned) Decision {
	if !caller.Authenticated() {
		return Decision{Reason: ReasonAnonymous}
	}
	if entity == nil || caller.UserID != entity.OwnerID() {
		return Decision{Reason: ReasonNotOwner}
	}
	return Decision{Allowed: true}
}
