package project

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobinette/bugtrack"
	"github.com/bobinette/bugtrack/clients"
	clientsauth "github.com/bobinette/bugtrack/clients/auth"
	clientsproject "github.com/bobinette/bugtrack/clients/project"
	"github.com/bobinette/bugtrack/errors"
	"github.com/bobinette/bugtrack/log"
	"github.com/bobinette/bugtrack/mock"
)

type fakeSession struct {
	user *bugtrack.User
}

func (s *fakeSession) Current() *bugtrack.User { return s.user }

type env struct {
	server *httptest.Server
	users  map[string]clientsauth.Response
}

// createEnv signs the given usernames up against an in-memory remote.
func createEnv(t *testing.T, usernames ...string) (*env, func()) {
	server := httptest.NewServer(mock.NewServer().Handler())

	e := &env{server: server, users: make(map[string]clientsauth.Response)}
	auth := clientsauth.NewClient(clients.NewClient(nil, server.URL))
	for _, username := range usernames {
		res, err := auth.Signup(context.Background(), username, "s3cretpwd")
		require.NoError(t, err, "could not sign %s up", username)
		e.users[username] = res
	}

	return e, server.Close
}

// storeFor builds a project store acting as the given user.
func (e *env) storeFor(username string) *Store {
	res := e.users[username]

	transport := clients.NewClient(nil, e.server.URL)
	transport.SetToken(res.Token)

	user := res.User
	return NewStore(clientsproject.NewClient(transport), &fakeSession{user: &user}, log.NewNop())
}

func TestStoreRoundTrip(t *testing.T) {
	e, clean := createEnv(t, "alice", "bob", "carol")
	defer clean()

	ctx := context.Background()
	store := e.storeFor("alice")

	require.NoError(t, store.FetchAll(ctx))
	assert.Equal(t, bugtrack.StatusSucceeded, store.FetchStatus())
	assert.Len(t, store.Projects(), 0)

	// Create with bob as an initial member: the creator is added by
	// the remote, never sent in the payload.
	created := false
	err := store.Create(ctx, "tracker", []string{e.users["bob"].User.ID}, func() { created = true })
	require.NoError(t, err)
	assert.True(t, created, "the dialog should close on success")

	projects := store.Projects()
	require.Len(t, projects, 1)
	project := projects[0]
	assert.Equal(t, "tracker", project.Name)
	assert.Equal(t, "alice", project.CreatedBy.Username)
	assert.Len(t, project.Members, 2)

	err = store.Rename(ctx, project.ID, "tracker v2", nil)
	require.NoError(t, err)
	renamed, ok := store.Get(project.ID)
	require.True(t, ok)
	assert.Equal(t, "tracker v2", renamed.Name)
	assert.True(t, renamed.UpdatedAt.After(project.UpdatedAt) || renamed.UpdatedAt.Equal(project.UpdatedAt))

	// bob is already a member: rejected before any call.
	err = store.AddMembers(ctx, project.ID, []string{e.users["bob"].User.ID}, nil)
	require.Error(t, err)
	errors.AssertCode(t, err, 400)
	assert.Contains(t, store.SubmitError(), "already a member")

	require.NoError(t, store.AddMembers(ctx, project.ID, []string{e.users["carol"].User.ID}, nil))
	updated, _ := store.Get(project.ID)
	assert.Len(t, updated.Members, 3)

	// Members are removed by user id.
	require.NoError(t, store.RemoveMember(ctx, project.ID, e.users["carol"].User.ID))
	updated, _ = store.Get(project.ID)
	assert.Len(t, updated.Members, 2)
	assert.False(t, updated.HasMember(e.users["carol"].User.ID))

	// The admin cannot be removed, even by themselves.
	err = store.RemoveMember(ctx, project.ID, e.users["alice"].User.ID)
	require.Error(t, err)
	assert.Equal(t, "cannot remove the project admin", store.SubmitError())
	updated, _ = store.Get(project.ID)
	assert.Len(t, updated.Members, 2)

	var cascaded string
	store.OnDeleted(func(projectID string) { cascaded = projectID })

	require.NoError(t, store.Delete(ctx, project.ID, nil))
	assert.Len(t, store.Projects(), 0)
	assert.Equal(t, project.ID, cascaded, "deletion should cascade")
}

func TestNonAdminMutations(t *testing.T) {
	e, clean := createEnv(t, "alice", "bob")
	defer clean()

	ctx := context.Background()
	admin := e.storeFor("alice")
	require.NoError(t, admin.Create(ctx, "tracker", []string{e.users["bob"].User.ID}, nil))
	projectID := admin.Projects()[0].ID

	member := e.storeFor("bob")
	require.NoError(t, member.FetchAll(ctx))
	require.Len(t, member.Projects(), 1)

	err := member.Delete(ctx, projectID, nil)
	require.Error(t, err)
	errors.AssertCode(t, err, 403)
	assert.Contains(t, member.SubmitError(), "not the admin")
	assert.Len(t, member.Projects(), 1, "a rejected deletion should leave the collection untouched")

	err = member.Rename(ctx, projectID, "hijacked", nil)
	require.Error(t, err)
	errors.AssertCode(t, err, 403)

	// A member can leave, the admin cannot.
	require.NoError(t, member.Leave(ctx, projectID, nil))
	left, _ := member.Get(projectID)
	assert.False(t, left.HasMember(e.users["bob"].User.ID))

	err = admin.Leave(ctx, projectID, nil)
	require.Error(t, err)
	assert.Equal(t, "the admin cannot leave the project", admin.SubmitError())
}

func TestSnapshotsAreDetached(t *testing.T) {
	e, clean := createEnv(t, "alice", "bob", "carol")
	defer clean()

	ctx := context.Background()
	store := e.storeFor("alice")

	bobID := e.users["bob"].User.ID
	carolID := e.users["carol"].User.ID
	require.NoError(t, store.Create(ctx, "tracker", []string{bobID, carolID}, nil))

	snapshot := store.Projects()[0]
	require.Len(t, snapshot.Members, 3)

	require.NoError(t, store.RemoveMember(ctx, snapshot.ID, bobID))

	// The snapshot taken before the removal must be untouched: no
	// shifted entries, no duplicated tail.
	require.Len(t, snapshot.Members, 3)
	assert.True(t, snapshot.HasMember(bobID))
	assert.Equal(t, bobID, snapshot.Members[1].Member.ID)
	assert.Equal(t, carolID, snapshot.Members[2].Member.ID)

	current, ok := store.Get(snapshot.ID)
	require.True(t, ok)
	assert.Len(t, current.Members, 2)
	assert.False(t, current.HasMember(bobID))
}

func TestCreateValidation(t *testing.T) {
	e, clean := createEnv(t, "alice")
	defer clean()

	ctx := context.Background()
	store := e.storeFor("alice")

	err := store.Create(ctx, "   ", nil, nil)
	require.Error(t, err)
	errors.AssertCode(t, err, 400)
	assert.Equal(t, "project name is required", store.SubmitError())

	err = store.Create(ctx, strings.Repeat("x", 61), nil, nil)
	require.Error(t, err)
	errors.AssertCode(t, err, 400)
	assert.Contains(t, store.SubmitError(), "at most 60 characters")

	require.NoError(t, store.FetchAll(ctx))
	assert.Len(t, store.Projects(), 0, "nothing should have been created")
}

func TestSortBy(t *testing.T) {
	e, clean := createEnv(t, "alice")
	defer clean()

	ctx := context.Background()
	store := e.storeFor("alice")

	require.NoError(t, store.Create(ctx, "zebra", nil, nil))
	require.NoError(t, store.Create(ctx, "api", nil, nil))

	require.NoError(t, store.SortBy(SortNameAZ))
	projects := store.Projects()
	require.Len(t, projects, 2)
	assert.Equal(t, "api", projects[0].Name)

	err := store.SortBy(SortCriterion("by-mood"))
	require.Error(t, err)
	errors.AssertCode(t, err, 400)
	assert.Equal(t, SortNameAZ, store.SortCriterion(), "an invalid criterion should not stick")
}
