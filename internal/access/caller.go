// Package access holds the request identity and the ownership rules that decide who may
// mutate a piece of content.
package access

// ContextKey is the gin context key the auth middleware stores the Caller under.
const ContextKey = "caller"

// Caller is the identity attached to one request. The zero value is the anonymous caller.
type Caller struct {
	UserID   uint   `json:"id"`
	Username string `json:"username"`
}

// Anonymous is the caller of a request without a valid session.
var Anonymous = Caller{}

func (c Caller) Authenticated() bool {
	return c.UserID != 0
}
