package bolt

import (
	"io/ioutil"
	"os"
	"path"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobinette/bugtrack"
)

func createDriver(t *testing.T) (*Driver, func()) {
	dir, err := ioutil.TempDir("", "bugtrack")
	require.NoError(t, err, "could not create tmp dir")

	driver := &Driver{}
	err = driver.Open(path.Join(dir, "test.db"))
	require.NoError(t, err, "could not open driver")

	return driver, func() {
		if err := driver.Close(); err != nil {
			t.Log(err)
		}
		if err := os.RemoveAll(dir); err != nil {
			t.Log(err)
		}
	}
}

func TestCredentialStore(t *testing.T) {
	driver, clean := createDriver(t)
	defer clean()

	store := &CredentialStore{Driver: driver}

	// Nothing persisted yet.
	user, token, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, "", token)

	err = store.Save(bugtrack.User{ID: "u1", Username: "alice"}, "some-token")
	require.NoError(t, err)

	user, token, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "some-token", token)

	err = store.Clear()
	require.NoError(t, err)

	user, token, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Equal(t, "", token)
}

func TestPrefStore(t *testing.T) {
	driver, clean := createDriver(t)
	defer clean()

	store := &PrefStore{Driver: driver}

	on, err := store.DarkMode()
	require.NoError(t, err)
	assert.False(t, on, "dark mode should default to off")

	require.NoError(t, store.SaveDarkMode(true))

	on, err = store.DarkMode()
	require.NoError(t, err)
	assert.True(t, on)
}
