package audit

import (
	"context"
	"strconv"

	"taskboard/internal/model"
	"taskboard/internal/repository"

	"github.com/google/uuid"
)

// Audit verbs. An entry's verb says what kind of change happened; the
// field/old/new columns say what it happened to.
const (
	VerbCreated       = "created"
	VerbDeleted       = "deleted"
	VerbMoved         = "moved"
	VerbDragged       = "dragged"
	VerbAssigned      = "assigned"
	VerbSmartAssigned = "smart_assigned"
	VerbRenamed       = "renamed"
	VerbEdited        = "edited"
	VerbReprioritized = "reprioritized"
	VerbUpdated       = "updated"
	VerbCommented     = "commented"
	VerbAttached      = "attached"
	VerbUnattached    = "unattached"
)

// Unassigned is the display fallback for an empty or unresolvable assignee.
const Unassigned = "Unassigned"

// Hint carries context about how a mutation came in. It only influences
// verb choice, never whether an entry is produced.
type Hint struct {
	DragAndDrop bool
	SmartAssign bool
}

// Translator turns a before-snapshot plus an applied patch into one
// structured audit entry per recognized field that actually changed.
type Translator struct {
	users repository.UserRepositoryInterface
}

func NewTranslator(users repository.UserRepositoryInterface) *Translator {
	return &Translator{users: users}
}

// Translate derives the audit batch for one committed update. Recognized
// fields are status, assignee, title, description, and priority. A
// mutation that touched none of them still yields exactly one generic
// entry, so no committed update is ever audit-silent.
func (t *Translator) Translate(ctx context.Context, before *model.Task, patch model.TaskPatch, actor model.Actor, hint Hint) []model.LogEntry {
	title := before.Title
	if patch.Title != nil {
		title = *patch.Title
	}

	base := func(verb string) model.LogEntry {
		id := before.ID
		return model.LogEntry{
			ActorID:   actor.ID,
			Verb:      verb,
			TaskID:    &id,
			TaskTitle: title,
		}
	}

	var entries []model.LogEntry

	if patch.Status != nil && *patch.Status != before.Status {
		verb := VerbMoved
		if hint.DragAndDrop {
			verb = VerbDragged
		}
		e := base(verb)
		e.Field = "status"
		e.OldValue = string(before.Status)
		e.NewValue = string(*patch.Status)
		entries = append(entries, e)
	}

	if patch.AssignedTo != nil && assigneeChanged(before.AssignedTo, *patch.AssignedTo) {
		verb := VerbAssigned
		if hint.SmartAssign {
			verb = VerbSmartAssigned
		}
		e := base(verb)
		e.Field = "assignee"
		e.OldValue = t.assigneeName(ctx, before)
		e.NewValue = t.resolveName(ctx, *patch.AssignedTo)
		entries = append(entries, e)
	}

	if patch.Title != nil && *patch.Title != before.Title {
		e := base(VerbRenamed)
		e.Field = "title"
		e.OldValue = before.Title
		e.NewValue = *patch.Title
		entries = append(entries, e)
	}

	if patch.Description != nil && *patch.Description != before.Description {
		e := base(VerbEdited)
		e.Field = "description"
		entries = append(entries, e)
	}

	if patch.Priority != nil && *patch.Priority != before.Priority {
		e := base(VerbReprioritized)
		e.Field = "priority"
		e.OldValue = priorityLabel(before.Priority)
		e.NewValue = priorityLabel(*patch.Priority)
		entries = append(entries, e)
	}

	if len(entries) == 0 {
		entries = append(entries, base(VerbUpdated))
	}
	return entries
}

func assigneeChanged(current *uuid.UUID, next string) bool {
	if next == "" {
		return current != nil
	}
	return current == nil || current.String() != next
}

// assigneeName renders the task's current assignee. A preloaded assignee
// is used as-is; otherwise the directory is consulted.
func (t *Translator) assigneeName(ctx context.Context, task *model.Task) string {
	if task.AssignedTo == nil {
		return Unassigned
	}
	if task.Assignee != nil && task.Assignee.Name != "" {
		return task.Assignee.Name
	}
	return t.resolveName(ctx, task.AssignedTo.String())
}

// resolveName looks up a display name, falling back to the raw identifier
// when the directory cannot resolve it.
func (t *Translator) resolveName(ctx context.Context, idStr string) string {
	if idStr == "" {
		return Unassigned
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return idStr
	}
	user, err := t.users.GetByID(ctx, id)
	if err != nil || user == nil {
		return idStr
	}
	return user.Name
}

func priorityLabel(p model.Priority) string {
	if label := p.Label(); label != "" {
		return label
	}
	return strconv.Itoa(int(p))
}
