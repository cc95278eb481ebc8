package bot

// Identity resolves whether an actor may mutate FAQ or configuration state.
// Implementations live with the transport (chat-platform roles, owner IDs);
// the core only ever sees this interface.
type Identity interface {
	IsPrivileged(actorID string) bool
}

// IdentityFunc adapts a plain function to the Identity interface.
type IdentityFunc func(actorID string) bool

func (f IdentityFunc) IsPrivileged(actorID string) bool { return f(actorID) }
