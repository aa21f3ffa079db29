package handler

import (
	"fmt"

	"taskboard/internal/audit"
	"taskboard/internal/model"
)

// RenderMessage turns a structured audit entry into display text. This is
// the only place entries become sentences; everything upstream works with
// the structured fields.
func RenderMessage(e model.LogEntry) string {
	actor := "Someone"
	if e.Actor != nil && e.Actor.Name != "" {
		actor = e.Actor.Name
	}

	switch e.Verb {
	case audit.VerbCreated:
		return fmt.Sprintf("%s created '%s'", actor, e.TaskTitle)
	case audit.VerbDeleted:
		return fmt.Sprintf("%s deleted '%s'", actor, e.TaskTitle)
	case audit.VerbMoved:
		return fmt.Sprintf("%s moved '%s' from %s to %s", actor, e.TaskTitle, e.OldValue, e.NewValue)
	case audit.VerbDragged:
		return fmt.Sprintf("%s dragged and dropped '%s' from %s to %s", actor, e.TaskTitle, e.OldValue, e.NewValue)
	case audit.VerbAssigned:
		return fmt.Sprintf("%s changed assignee for '%s' from '%s' to '%s'", actor, e.TaskTitle, e.OldValue, e.NewValue)
	case audit.VerbSmartAssigned:
		return fmt.Sprintf("%s used Smart Assign and '%s' was assigned to %s", actor, e.TaskTitle, e.NewValue)
	case audit.VerbRenamed:
		return fmt.Sprintf("%s changed title from '%s' to '%s'", actor, e.OldValue, e.NewValue)
	case audit.VerbEdited:
		return fmt.Sprintf("%s changed description for '%s'", actor, e.TaskTitle)
	case audit.VerbReprioritized:
		return fmt.Sprintf("%s changed priority from '%s' to '%s' on '%s'", actor, e.OldValue, e.NewValue, e.TaskTitle)
	case audit.VerbCommented:
		return fmt.Sprintf("%s commented %q on '%s'", actor, e.Detail, e.TaskTitle)
	case audit.VerbAttached:
		return fmt.Sprintf("%s attached %s on '%s'", actor, e.Detail, e.TaskTitle)
	case audit.VerbUnattached:
		return fmt.Sprintf("%s removed %s on '%s'", actor, e.Detail, e.TaskTitle)
	default:
		return fmt.Sprintf("%s updated '%s'", actor, e.TaskTitle)
	}
}
