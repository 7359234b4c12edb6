package pgsql

import (
	"fmt"
	"strings"

	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
)

// whereBuilder collects AND-ed conditions with positional arguments.
// Each "?" in a condition is replaced with the next $n placeholder.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	parts := strings.Split(cond, "?")
	if len(parts)-1 != len(args) {
		panic(fmt.Sprintf("pgsql: condition %q expects %d args, got %d", cond, len(parts)-1, len(args)))
	}
	var b strings.Builder
	for i, part := range parts {
		b.WriteString(part)
		if i < len(args) {
			w.args = append(w.args, args[i])
			fmt.Fprintf(&b, "$%d", len(w.args))
		}
	}
	w.conds = append(w.conds, b.String())
}

// String renders the WHERE clause, or an empty string without conditions.
func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// projectScopeWhere translates a ProjectScope on alias p.
func projectScopeWhere(scope domain.ProjectScope) *whereBuilder {
	w := &whereBuilder{}
	if scope.Kind == domain.ScopeNone {
		w.add("FALSE")
		return w
	}
	w.add("p.workspace_id = ?", scope.WorkspaceID)
	w.add("p.archived_at IS NULL")
	if scope.Kind == domain.ScopeMember {
		w.add("EXISTS (SELECT 1 FROM project_memberships pm WHERE pm.project_id = p.project_id AND pm.user_id = ?)", scope.UserID)
	}
	return w
}

// taskScopeWhere translates a TaskScope plus listing filter on alias t.
func taskScopeWhere(scope domain.TaskScope, filter portsrepo.TaskFilter) *whereBuilder {
	w := &whereBuilder{}
	if scope.Kind == domain.ScopeNone {
		w.add("FALSE")
		return w
	}
	w.add("t.project_id = ?", scope.ProjectID)
	if !(scope.Kind == domain.ScopeAll && filter.IncludeArchived) {
		w.add("t.archived_at IS NULL")
	}
	if scope.ExcludeHiddenToClient {
		w.add("t.hidden_from_clients = FALSE")
	}
	if scope.Kind == domain.ScopeMember {
		cond := "(t.assigned_to_user_id = ? OR t.created_by_user_id = ?"
		if scope.IncludeUnassigned {
			cond += " OR t.assigned_to_user_id IS NULL OR t.assigned_to_user_id = ''"
		}
		w.add(cond+")", scope.UserID, scope.UserID)
	}
	if filter.GroupID != nil {
		w.add("t.group_id = ?", *filter.GroupID)
	}
	return w
}
