package domain

// ProjectAccess is the caller's resolved standing within one project.
type ProjectAccess struct {
	UserID    string
	ProjectID string
	Role      *Role // effective role, nil means no access
	OnTeam    bool  // the user holds a ProjectMembership row for the project
}

// HasRole reports whether the access resolved to any role.
func (a ProjectAccess) HasRole() bool { return a.Role != nil }

// Is reports whether the effective role equals r.
func (a ProjectAccess) Is(r Role) bool { return a.Role != nil && *a.Role == r }

// ScopeKind is the shape of a visibility predicate.
type ScopeKind int

const (
	// ScopeNone matches nothing.
	ScopeNone ScopeKind = iota
	// ScopeAll matches every non-archived row in the owning workspace or project.
	ScopeAll
	// ScopeMember restricts rows to those tied to the user.
	ScopeMember
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeAll:
		return "all"
	case ScopeMember:
		return "member"
	default:
		return "none"
	}
}

// ProjectScope restricts which projects of a workspace are readable.
// With ScopeMember only projects where UserID holds a ProjectMembership row match;
// callers evaluating it in memory pass that fact to Matches.
type ProjectScope struct {
	Kind        ScopeKind
	WorkspaceID string
	UserID      string
}

// Matches evaluates the predicate against a project row.
func (s ProjectScope) Matches(p Project, userOnTeam bool) bool {
	if s.Kind == ScopeNone || p.WorkspaceID != s.WorkspaceID || p.State.IsArchived() {
		return false
	}
	if s.Kind == ScopeAll {
		return true
	}
	return userOnTeam
}

// TaskScope restricts which tasks of a project are readable or mutable.
//
// ScopeMember is the union of: unassigned tasks when the user is on the project team,
// tasks assigned to the user, and tasks created by the user.
type TaskScope struct {
	Kind                  ScopeKind
	ProjectID             string
	UserID                string
	IncludeUnassigned     bool // member scope only: the user is on the team
	ExcludeHiddenToClient bool
}

// Matches evaluates the predicate against a task row.
func (s TaskScope) Matches(t Task) bool {
	if s.Kind == ScopeNone || t.ProjectID != s.ProjectID || t.State.IsArchived() {
		return false
	}
	if s.ExcludeHiddenToClient && t.HiddenFromClients {
		return false
	}
	if s.Kind == ScopeAll {
		return true
	}
	if s.IncludeUnassigned && t.IsUnassigned() {
		return true
	}
	return t.IsAssignedTo(s.UserID) || t.CreatedByUserID == s.UserID
}

// IsEmpty reports whether the predicate can never match.
func (s TaskScope) IsEmpty() bool { return s.Kind == ScopeNone }
