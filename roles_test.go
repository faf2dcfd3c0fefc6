package bugtrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowed(t *testing.T) {
	admin := User{ID: "u1", Username: "alice"}
	member := User{ID: "u2", Username: "bob"}
	stranger := User{ID: "u3", Username: "carol"}

	project := Project{
		ID:        "p1",
		Name:      "tracker",
		CreatedBy: admin,
		Members: []ProjectMember{
			{ID: "m1", Member: admin},
			{ID: "m2", Member: member},
		},
	}
	note := Note{ID: 1, Body: "seen on staging", Author: member}

	tts := map[string]struct {
		trigger  Trigger
		admin    bool
		member   bool
		stranger bool
	}{
		"rename project": {
			trigger: RenameProjectTrigger{Project: project},
			admin:   true, member: false, stranger: false,
		},
		"delete project": {
			trigger: DeleteProjectTrigger{Project: project},
			admin:   true, member: false, stranger: false,
		},
		"add members": {
			trigger: AddMembersTrigger{Project: project},
			admin:   true, member: false, stranger: false,
		},
		"remove member": {
			trigger: RemoveMemberTrigger{Project: project},
			admin:   true, member: false, stranger: false,
		},
		"leave project": {
			trigger: LeaveProjectTrigger{Project: project},
			admin:   false, member: true, stranger: false,
		},
		"create bug": {
			trigger: CreateBugTrigger{Project: project},
			admin:   true, member: true, stranger: false,
		},
		"edit bug": {
			trigger: EditBugTrigger{Project: project},
			admin:   true, member: true, stranger: false,
		},
		"delete bug": {
			trigger: DeleteBugTrigger{Project: project},
			admin:   true, member: true, stranger: false,
		},
		"close or reopen bug": {
			trigger: CloseReopenBugTrigger{Project: project},
			admin:   true, member: true, stranger: false,
		},
		"create note": {
			trigger: CreateNoteTrigger{Project: project},
			admin:   true, member: true, stranger: false,
		},
		"edit note": {
			trigger: EditNoteTrigger{Note: note},
			admin:   false, member: true, stranger: false,
		},
		"delete note": {
			trigger: DeleteNoteTrigger{Project: project, Note: note},
			admin:   true, member: true, stranger: false,
		},
	}

	for name, tt := range tts {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.admin, Allowed(tt.trigger, &admin), "admin")
			assert.Equal(t, tt.member, Allowed(tt.trigger, &member), "member")
			assert.Equal(t, tt.stranger, Allowed(tt.trigger, &stranger), "stranger")
			assert.False(t, Allowed(tt.trigger, nil), "anonymous")
		})
	}
}

func TestCanDeleteNote(t *testing.T) {
	admin := User{ID: "u1"}
	author := User{ID: "u2"}
	other := User{ID: "u3"}

	project := Project{CreatedBy: admin}
	note := Note{ID: 1, Author: author}

	assert.True(t, CanDeleteNote(project, note, &author))
	assert.True(t, CanDeleteNote(project, note, &admin))
	assert.False(t, CanDeleteNote(project, note, &other))
	assert.False(t, CanDeleteNote(project, note, nil))
}
