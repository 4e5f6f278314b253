package routes

// Policy decides how an auth requirement declared on a parent applies to
// its descendants.
type Policy int

const (
	// InheritAuth guards a node when the nearest node on its chain that
	// declares RequiresAuth says true. A child can opt out with false.
	InheritAuth Policy = iota
	// ExplicitAuth reads only the matched node's own flag.
	ExplicitAuth
)

func (p Policy) String() string {
	if p == ExplicitAuth {
		return "explicit"
	}
	return "inherit"
}

// Decision is the outcome of one navigation attempt.
type Decision struct {
	Allow bool
	// Redirect is the path to send the user to when Allow is false.
	Redirect string
}

// Guard decides whether a navigation may proceed. It only checks that a
// token is present; validity and expiry are the backend's business.
type Guard struct {
	policy    Policy
	loginPath string
}

func NewGuard(policy Policy, loginPath string) *Guard {
	return &Guard{policy: policy, loginPath: loginPath}
}

func (g *Guard) Policy() Policy {
	return g.policy
}

func (g *Guard) LoginPath() string {
	return g.loginPath
}

// RequiresAuth reports whether the matched route is guarded under g's policy.
func (g *Guard) RequiresAuth(m *Match) bool {
	if m == nil || len(m.Chain) == 0 {
		return false
	}
	if g.policy == ExplicitAuth {
		leaf := m.Leaf()
		return leaf.Meta.RequiresAuth != nil && *leaf.Meta.RequiresAuth
	}
	for i := len(m.Chain) - 1; i >= 0; i-- {
		if flag := m.Chain[i].Meta.RequiresAuth; flag != nil {
			return *flag
		}
	}
	return false
}

// Decide is pure: same match and token, same answer.
func (g *Guard) Decide(m *Match, token string) Decision {
	if g.RequiresAuth(m) && token == "" {
		return Decision{Redirect: g.loginPath}
	}
	return Decision{Allow: true}
}
