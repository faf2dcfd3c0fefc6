package bugtrack

// IsProjectAdmin reports whether the viewer is the admin of the
// project. The admin is always the creator.
func IsProjectAdmin(p Project, viewer *User) bool {
	return viewer != nil && p.CreatedBy.ID == viewer.ID
}

// IsProjectMember reports whether the viewer appears in the member
// list of the project.
func IsProjectMember(p Project, viewer *User) bool {
	return viewer != nil && p.HasMember(viewer.ID)
}

// CanEditNote reports whether the viewer wrote the note.
func CanEditNote(n Note, viewer *User) bool {
	return viewer != nil && n.Author.ID == viewer.ID
}

// CanDeleteNote reports whether the viewer wrote the note or is the
// admin of the project the note lives in.
func CanDeleteNote(p Project, n Note, viewer *User) bool {
	return CanEditNote(n, viewer) || IsProjectAdmin(p, viewer)
}

// Trigger is an interactive control the presentation layer may offer.
// Each variant carries exactly the entities its rule needs.
type Trigger interface {
	trigger()
}

type RenameProjectTrigger struct{ Project Project }
type DeleteProjectTrigger struct{ Project Project }
type AddMembersTrigger struct{ Project Project }
type RemoveMemberTrigger struct{ Project Project }
type LeaveProjectTrigger struct{ Project Project }
type CreateBugTrigger struct{ Project Project }
type EditBugTrigger struct{ Project Project }
type DeleteBugTrigger struct{ Project Project }
type CloseReopenBugTrigger struct{ Project Project }
type CreateNoteTrigger struct{ Project Project }
type EditNoteTrigger struct{ Note Note }
type DeleteNoteTrigger struct {
	Project Project
	Note    Note
}

func (RenameProjectTrigger) trigger()  {}
func (DeleteProjectTrigger) trigger()  {}
func (AddMembersTrigger) trigger()     {}
func (RemoveMemberTrigger) trigger()   {}
func (LeaveProjectTrigger) trigger()   {}
func (CreateBugTrigger) trigger()      {}
func (EditBugTrigger) trigger()        {}
func (DeleteBugTrigger) trigger()      {}
func (CloseReopenBugTrigger) trigger() {}
func (CreateNoteTrigger) trigger()     {}
func (EditNoteTrigger) trigger()       {}
func (DeleteNoteTrigger) trigger()     {}

// Allowed decides whether the control behind the trigger should be
// offered to the viewer at all. A control that is not allowed is
// withheld, not merely disabled. Anonymous viewers get nothing.
func Allowed(t Trigger, viewer *User) bool {
	if viewer == nil {
		return false
	}

	switch t := t.(type) {
	case RenameProjectTrigger:
		return IsProjectAdmin(t.Project, viewer)
	case DeleteProjectTrigger:
		return IsProjectAdmin(t.Project, viewer)
	case AddMembersTrigger:
		return IsProjectAdmin(t.Project, viewer)
	case RemoveMemberTrigger:
		return IsProjectAdmin(t.Project, viewer)
	case LeaveProjectTrigger:
		// The admin cannot leave: the project would be orphaned.
		return IsProjectMember(t.Project, viewer) && !IsProjectAdmin(t.Project, viewer)
	case CreateBugTrigger:
		return IsProjectMember(t.Project, viewer)
	case EditBugTrigger:
		return IsProjectMember(t.Project, viewer)
	case DeleteBugTrigger:
		return IsProjectMember(t.Project, viewer)
	case CloseReopenBugTrigger:
		return IsProjectMember(t.Project, viewer)
	case CreateNoteTrigger:
		return IsProjectMember(t.Project, viewer)
	case EditNoteTrigger:
		return CanEditNote(t.Note, viewer)
	case DeleteNoteTrigger:
		return CanDeleteNote(t.Project, t.Note, viewer)
	}

	return false
}
