package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/taskboard_app/internal/apperrors"
	"github.com/SscSPs/taskboard_app/internal/core/domain"
	portsrepo "github.com/SscSPs/taskboard_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/taskboard_app/internal/core/ports/services"
	"github.com/google/uuid"
)

const maxGroupNameLength = 100

// taskGroupService implements the TaskGroupSvc interface
type taskGroupService struct {
	BaseService
	boardRepo portsrepo.BoardRepositoryFacade
	access    portssvc.AccessScopeSvc
	filter    VisibilityFilter
}

// NewTaskGroupService creates the board column engine
func NewTaskGroupService(
	boardRepo portsrepo.BoardRepositoryFacade,
	access portssvc.AccessScopeSvc,
	filter VisibilityFilter,
	opts ...ServiceOption,
) portssvc.TaskGroupSvc {
	return &taskGroupService{
		BaseService: newBaseService(opts),
		boardRepo:   boardRepo,
		access:      access,
		filter:      filter,
	}
}

var _ portssvc.TaskGroupSvc = (*taskGroupService)(nil)

// InitializeSystemGroups seeds or repairs the three system groups of a project
func (s *taskGroupService) InitializeSystemGroups(ctx context.Context, rc domain.RequestContext, projectID string) ([]domain.TaskGroup, error) {
	if _, err := s.authorize(ctx, rc, projectID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	var result []domain.TaskGroup
	repaired := false
	err := s.withWriteRetry(ctx, "initialize system groups", func() error {
		return s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
			existing, err := tx.LockGroupsByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if systemGroupsIntact(existing) {
				result, repaired = existing, false
				return nil
			}
			result, err = repairSystemGroups(ctx, tx, projectID, rc.UserID, existing, s.now())
			repaired = err == nil
			return err
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to initialize system groups",
			slog.String("project_id", projectID))
		return nil, err
	}

	if repaired {
		s.LogInfo(ctx, "System groups seeded",
			slog.String("project_id", projectID))
		s.publish(ctx, domain.BoardEvent{
			Type:        domain.EventSystemGroupsSeeded,
			WorkspaceID: rc.WorkspaceID,
			ProjectID:   projectID,
			ActorUserID: rc.UserID,
			SubjectID:   projectID,
		})
	}
	return result, nil
}

// ListGroups returns the columns of a project ordered by position
func (s *taskGroupService) ListGroups(ctx context.Context, rc domain.RequestContext, projectID string, includeArchived bool) ([]domain.TaskGroup, error) {
	if _, err := s.authorize(ctx, rc, projectID); err != nil {
		return nil, err
	}

	groups, err := s.boardRepo.ListGroupsByProject(ctx, projectID, includeArchived)
	if err != nil {
		s.LogError(ctx, err, "Failed to list task groups",
			slog.String("project_id", projectID))
		return nil, err
	}
	if groups == nil {
		return []domain.TaskGroup{}, nil
	}
	return groups, nil
}

// CreateCustomGroup inserts a custom group at the position "Complete" held, moving "Complete"
// and everything after it one position to the right
func (s *taskGroupService) CreateCustomGroup(ctx context.Context, rc domain.RequestContext, projectID, name string) (*domain.TaskGroup, error) {
	name, err := validateGroupName(name)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, rc, projectID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return nil, err
	}

	var created domain.TaskGroup
	err = s.withWriteRetry(ctx, "create task group", func() error {
		return s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
			groups, err := tx.LockGroupsByProject(ctx, projectID)
			if err != nil {
				return err
			}

			position, beforeComplete := insertionPosition(groups)
			if beforeComplete {
				if err := tx.ShiftGroupPositions(ctx, projectID, position, 1); err != nil {
					return err
				}
			}

			now := s.now()
			created = domain.TaskGroup{
				GroupID:     uuid.NewString(),
				ProjectID:   projectID,
				Name:        name,
				Type:        domain.GroupTypeCustom,
				Position:    position,
				State:       domain.ActiveState(),
				AuditFields: domain.NewAuditFields(rc.UserID, now),
			}
			return tx.InsertGroup(ctx, created)
		})
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create task group",
			slog.String("project_id", projectID))
		return nil, err
	}

	s.LogInfo(ctx, "Task group created",
		slog.String("group_id", created.GroupID),
		slog.String("project_id", projectID),
		slog.Int("position", created.Position))
	s.publish(ctx, domain.BoardEvent{
		Type:        domain.EventGroupCreated,
		WorkspaceID: rc.WorkspaceID,
		ProjectID:   projectID,
		ActorUserID: rc.UserID,
		SubjectID:   created.GroupID,
		Properties:  map[string]any{"name": created.Name, "position": created.Position},
	})
	return &created, nil
}

// RenameGroup renames a custom group
func (s *taskGroupService) RenameGroup(ctx context.Context, rc domain.RequestContext, groupID, newName string) (*domain.TaskGroup, error) {
	newName, err := validateGroupName(newName)
	if err != nil {
		return nil, err
	}

	var renamed domain.TaskGroup
	err = s.mutateGroup(ctx, rc, groupID, "rename task group", func(ctx context.Context, tx portsrepo.BoardTx, group *domain.TaskGroup) error {
		if group.IsSystem() {
			return apperrors.ErrSystemGroupImmutable
		}
		group.Name = newName
		group.Touch(rc.UserID, s.now())
		renamed = *group
		return tx.UpdateGroup(ctx, *group)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.BoardEvent{
		Type:        domain.EventGroupRenamed,
		WorkspaceID: rc.WorkspaceID,
		ProjectID:   renamed.ProjectID,
		ActorUserID: rc.UserID,
		SubjectID:   renamed.GroupID,
		Properties:  map[string]any{"name": renamed.Name},
	})
	return &renamed, nil
}

// DeleteGroup removes a custom group holding no active tasks. Positions of the remaining
// groups are left as they are.
func (s *taskGroupService) DeleteGroup(ctx context.Context, rc domain.RequestContext, groupID string) error {
	var deleted domain.TaskGroup
	err := s.mutateGroup(ctx, rc, groupID, "delete task group", func(ctx context.Context, tx portsrepo.BoardTx, group *domain.TaskGroup) error {
		if group.IsSystem() {
			return apperrors.ErrSystemGroupImmutable
		}
		active, err := tx.CountActiveTasksInGroup(ctx, group.GroupID)
		if err != nil {
			return err
		}
		if active > 0 {
			return fmt.Errorf("%w: %d active task(s)", apperrors.ErrGroupNotEmpty, active)
		}
		deleted = *group
		return tx.DeleteGroup(ctx, group.GroupID)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, domain.BoardEvent{
		Type:        domain.EventGroupDeleted,
		WorkspaceID: rc.WorkspaceID,
		ProjectID:   deleted.ProjectID,
		ActorUserID: rc.UserID,
		SubjectID:   deleted.GroupID,
	})
	return nil
}

// ReorderGroups writes a complete 1..N position assignment in one batch
func (s *taskGroupService) ReorderGroups(ctx context.Context, rc domain.RequestContext, projectID string, positions map[string]int) ([]domain.TaskGroup, error) {
	if len(positions) == 0 {
		return nil, apperrors.NewValidationError("positions", "must not be empty")
	}
	if _, err := s.authorize(ctx, rc, projectID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return nil, err
	}

	var reordered []domain.TaskGroup
	err := s.withWriteRetry(ctx, "reorder task groups", func() error {
		return s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
			groups, err := tx.LockGroupsByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if err := ValidateGroupPositions(groups, positions); err != nil {
				return err
			}
			if err := tx.UpdateGroupPositions(ctx, positions, rc.UserID, s.now()); err != nil {
				return err
			}
			reordered = applyPositions(groups, positions)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			s.LogWarn(ctx, "Rejected task group reorder",
				slog.String("project_id", projectID),
				slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to reorder task groups",
				slog.String("project_id", projectID))
		}
		return nil, err
	}

	s.publish(ctx, domain.BoardEvent{
		Type:        domain.EventGroupsReordered,
		WorkspaceID: rc.WorkspaceID,
		ProjectID:   projectID,
		ActorUserID: rc.UserID,
		SubjectID:   projectID,
		Properties:  map[string]any{"count": len(positions)},
	})
	return reordered, nil
}

// ArchiveGroup soft-deletes a group; its position is kept
func (s *taskGroupService) ArchiveGroup(ctx context.Context, rc domain.RequestContext, groupID string) (*domain.TaskGroup, error) {
	return s.setGroupState(ctx, rc, groupID, true)
}

// RestoreGroup reverses ArchiveGroup; its position is kept
func (s *taskGroupService) RestoreGroup(ctx context.Context, rc domain.RequestContext, groupID string) (*domain.TaskGroup, error) {
	return s.setGroupState(ctx, rc, groupID, false)
}

func (s *taskGroupService) setGroupState(ctx context.Context, rc domain.RequestContext, groupID string, archive bool) (*domain.TaskGroup, error) {
	op, eventType := "restore task group", domain.EventGroupRestored
	if archive {
		op, eventType = "archive task group", domain.EventGroupArchived
	}

	var updated domain.TaskGroup
	err := s.mutateGroup(ctx, rc, groupID, op, func(ctx context.Context, tx portsrepo.BoardTx, group *domain.TaskGroup) error {
		now := s.now()
		if archive {
			group.State = group.State.Archive(now)
		} else {
			group.State = group.State.Restore()
		}
		group.Touch(rc.UserID, now)
		updated = *group
		return tx.UpdateGroup(ctx, *group)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.BoardEvent{
		Type:        eventType,
		WorkspaceID: rc.WorkspaceID,
		ProjectID:   updated.ProjectID,
		ActorUserID: rc.UserID,
		SubjectID:   updated.GroupID,
	})
	return &updated, nil
}

// mutateGroup authorizes the caller against the group's project and runs fn with the
// group row locked.
func (s *taskGroupService) mutateGroup(
	ctx context.Context,
	rc domain.RequestContext,
	groupID, op string,
	fn func(ctx context.Context, tx portsrepo.BoardTx, group *domain.TaskGroup) error,
) error {
	group, err := s.boardRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find task group",
				slog.String("group_id", groupID))
		}
		return err
	}
	if _, err := s.authorize(ctx, rc, group.ProjectID, domain.RoleAdmin, domain.RoleMember); err != nil {
		return err
	}

	err = s.withWriteRetry(ctx, op, func() error {
		return s.boardRepo.RunInTx(ctx, func(ctx context.Context, tx portsrepo.BoardTx) error {
			locked, err := tx.FindGroupForUpdate(ctx, groupID)
			if err != nil {
				return err
			}
			return fn(ctx, tx, locked)
		})
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrSystemGroupImmutable), errors.Is(err, apperrors.ErrGroupNotEmpty),
			errors.Is(err, apperrors.ErrNotFound):
			s.LogWarn(ctx, "Rejected task group change",
				slog.String("operation", op),
				slog.String("group_id", groupID),
				slog.String("reason", err.Error()))
		default:
			s.LogError(ctx, err, "Failed to "+op,
				slog.String("group_id", groupID))
		}
		return err
	}

	s.LogInfo(ctx, "Task group updated",
		slog.String("operation", op),
		slog.String("group_id", groupID))
	return nil
}

// authorize resolves the caller's project access and checks it against allowed roles;
// no allowed roles means any role will do.
func (s *taskGroupService) authorize(ctx context.Context, rc domain.RequestContext, projectID string, allowed ...domain.Role) (domain.ProjectAccess, error) {
	_, access, err := s.access.ResolveProjectAccess(ctx, rc, projectID)
	if err != nil {
		return access, err
	}
	return access, requireProjectRole(ctx, &s.BaseService, access, allowed...)
}

// requireProjectRole fails with ErrForbidden unless the access carries one of allowed.
func requireProjectRole(ctx context.Context, base *BaseService, access domain.ProjectAccess, allowed ...domain.Role) error {
	if access.Role == nil || !hasAllowedRole(*access.Role, allowed) {
		role := "none"
		if access.Role != nil {
			role = string(*access.Role)
		}
		base.LogWarn(ctx, "Project action denied",
			slog.String("user_id", access.UserID),
			slog.String("project_id", access.ProjectID),
			slog.String("role", role))
		return apperrors.NewForbiddenError("insufficient role for this project")
	}
	return nil
}

// seedSystemGroups inserts "To Do", "In Progress" and "Complete" at positions 1..3.
func seedSystemGroups(ctx context.Context, tx portsrepo.BoardTx, projectID, userID string, now time.Time) ([]domain.TaskGroup, error) {
	groups := make([]domain.TaskGroup, 0, len(domain.SystemGroupNames))
	for i, name := range domain.SystemGroupNames {
		group := domain.TaskGroup{
			GroupID:     uuid.NewString(),
			ProjectID:   projectID,
			Name:        name,
			Type:        domain.GroupTypeSystem,
			Position:    i + 1,
			State:       domain.ActiveState(),
			AuditFields: domain.NewAuditFields(userID, now),
		}
		if err := tx.InsertGroup(ctx, group); err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// systemGroupsIntact reports whether each system group exists exactly once and no other
// group is marked as system. Positions are not checked: any 1..N layout ReorderGroups
// accepts is a valid board.
func systemGroupsIntact(groups []domain.TaskGroup) bool {
	seen := make(map[string]bool, len(domain.SystemGroupNames))
	for _, g := range groups {
		if !g.IsSystem() {
			continue
		}
		name, ok := canonicalSystemGroupName(g.Name)
		if !ok || seen[name] {
			return false
		}
		seen[name] = true
	}
	return len(seen) == len(domain.SystemGroupNames)
}

// canonicalSystemGroupName matches name against the system group names case-insensitively.
func canonicalSystemGroupName(name string) (string, bool) {
	for _, sys := range domain.SystemGroupNames {
		if strings.EqualFold(strings.TrimSpace(name), sys) {
			return sys, true
		}
	}
	return "", false
}

// repairSystemGroups keeps every custom group and the first system group of each name, seeds
// the missing system groups and drops the rest. Tasks of a dropped group move to the end of the
// kept system group of the same name ("To Do" when there is none) and get the completion rule
// applied again. The result is laid out as "To Do", "In Progress", the custom groups in their
// previous order, then "Complete".
func repairSystemGroups(ctx context.Context, tx portsrepo.BoardTx, projectID, userID string, existing []domain.TaskGroup, now time.Time) ([]domain.TaskGroup, error) {
	kept := make(map[string]domain.TaskGroup, len(domain.SystemGroupNames))
	var custom, dropped []domain.TaskGroup
	maxPosition := 0
	for _, g := range existing {
		maxPosition = max(maxPosition, g.Position)
		if !g.IsSystem() {
			custom = append(custom, g)
			continue
		}
		name, ok := canonicalSystemGroupName(g.Name)
		if _, dup := kept[name]; !ok || dup {
			dropped = append(dropped, g)
			continue
		}
		kept[name] = g
	}

	for _, name := range domain.SystemGroupNames {
		if _, ok := kept[name]; ok {
			continue
		}
		maxPosition++
		group := domain.TaskGroup{
			GroupID:     uuid.NewString(),
			ProjectID:   projectID,
			Name:        name,
			Type:        domain.GroupTypeSystem,
			Position:    maxPosition,
			State:       domain.ActiveState(),
			AuditFields: domain.NewAuditFields(userID, now),
		}
		if err := tx.InsertGroup(ctx, group); err != nil {
			return nil, err
		}
		kept[name] = group
	}

	if len(dropped) > 0 {
		droppedByID := make(map[string]domain.TaskGroup, len(dropped))
		ids := make([]string, 0, len(dropped))
		for _, g := range dropped {
			droppedByID[g.GroupID] = g
			ids = append(ids, g.GroupID)
		}
		tasks, err := tx.LockTasksByGroups(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, task := range tasks {
			target := kept[domain.GroupNameToDo]
			if name, ok := canonicalSystemGroupName(droppedByID[*task.GroupID].Name); ok {
				target = kept[name]
			}
			order, err := nextOrderColumn(ctx, tx, target.GroupID)
			if err != nil {
				return nil, err
			}
			task.GroupID = &target.GroupID
			task.OrderColumn = order
			task.ApplyGroupCompletion(target, nil, now)
			task.Touch(userID, now)
			if err := tx.UpdateTask(ctx, task); err != nil {
				return nil, err
			}
		}
		for _, g := range dropped {
			if err := tx.DeleteGroup(ctx, g.GroupID); err != nil {
				return nil, err
			}
		}
	}

	layout := make([]domain.TaskGroup, 0, len(custom)+len(domain.SystemGroupNames))
	layout = append(layout, kept[domain.GroupNameToDo], kept[domain.GroupNameInProgress])
	layout = append(layout, custom...)
	layout = append(layout, kept[domain.GroupNameComplete])

	positions := make(map[string]int, len(layout))
	for i := range layout {
		layout[i].Position = i + 1
		layout[i].Touch(userID, now)
		positions[layout[i].GroupID] = i + 1
	}
	if err := tx.UpdateGroupPositions(ctx, positions, userID, now); err != nil {
		return nil, err
	}
	return layout, nil
}

// insertionPosition returns where a new custom group goes: the position of the system
// "Complete" group, or max+1 when there is none.
func insertionPosition(groups []domain.TaskGroup) (position int, beforeComplete bool) {
	maxPosition := 0
	for _, g := range groups {
		if g.IsSystem() && g.IsCompletionGroup() {
			return g.Position, true
		}
		maxPosition = max(maxPosition, g.Position)
	}
	return maxPosition + 1, false
}

// ValidateGroupPositions checks a reorder payload against the project's groups: every id must
// belong to the project, every group must be covered, and the positions sorted must be exactly 1..N.
func ValidateGroupPositions(groups []domain.TaskGroup, positions map[string]int) error {
	known := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		known[g.GroupID] = struct{}{}
	}

	var foreign []string
	for id := range positions {
		if _, ok := known[id]; !ok {
			foreign = append(foreign, id)
		}
	}
	if len(foreign) > 0 {
		return apperrors.NewValidationError("positions", "contains groups outside the project", foreign...)
	}

	var missing []string
	for _, g := range groups {
		if _, ok := positions[g.GroupID]; !ok {
			missing = append(missing, g.GroupID)
		}
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("positions", "must include every group of the project", missing...)
	}

	n := len(groups)
	byPosition := make(map[int][]string, n)
	var outOfRange []string
	for id, pos := range positions {
		if pos < 1 || pos > n {
			outOfRange = append(outOfRange, id)
			continue
		}
		byPosition[pos] = append(byPosition[pos], id)
	}
	if len(outOfRange) > 0 {
		return apperrors.NewValidationError("positions", fmt.Sprintf("must be between 1 and %d", n), outOfRange...)
	}
	var duplicated []string
	for _, ids := range byPosition {
		if len(ids) > 1 {
			duplicated = append(duplicated, ids...)
		}
	}
	if len(duplicated) > 0 {
		return apperrors.NewValidationError("positions", "must not repeat a position", duplicated...)
	}
	return nil
}

// applyPositions returns a copy of groups with the new positions, ordered by position.
func applyPositions(groups []domain.TaskGroup, positions map[string]int) []domain.TaskGroup {
	out := make([]domain.TaskGroup, len(groups))
	copy(out, groups)
	for i := range out {
		if pos, ok := positions[out[i].GroupID]; ok {
			out[i].Position = pos
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func validateGroupName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.NewValidationError("name", "must not be empty")
	}
	if len(name) > maxGroupNameLength {
		return "", apperrors.NewValidationError("name", fmt.Sprintf("must be at most %d characters", maxGroupNameLength))
	}
	for _, system := range domain.SystemGroupNames {
		if strings.EqualFold(name, system) {
			return "", apperrors.NewValidationError("name", "is reserved for a system group")
		}
	}
	return name, nil
}
