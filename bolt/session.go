package bolt

import (
	"encoding/json"

	"github.com/boltdb/bolt"

	"github.com/bobinette/bugtrack"
)

var (
	credentialsBucket = []byte("credentials")
	prefsBucket       = []byte("prefs")

	userKey     = []byte("user")
	tokenKey    = []byte("token")
	darkModeKey = []byte("darkMode")
)

// CredentialStore persists the authenticated user and token across
// process restarts.
type CredentialStore struct {
	Driver *Driver
}

func (s *CredentialStore) Save(user bugtrack.User, token string) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(credentialsBucket)

		data, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := bucket.Put(userKey, data); err != nil {
			return err
		}

		return bucket.Put(tokenKey, []byte(token))
	})
}

// Load retrieves the persisted credentials. A nil user means nothing
// is persisted.
func (s *CredentialStore) Load() (*bugtrack.User, string, error) {
	var user *bugtrack.User
	var token string

	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(credentialsBucket)

		data := bucket.Get(userKey)
		if data == nil {
			return nil
		}

		var u bugtrack.User
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}

		user = &u
		token = string(bucket.Get(tokenKey))
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *CredentialStore) Clear() error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(credentialsBucket)

		if err := bucket.Delete(userKey); err != nil {
			return err
		}
		return bucket.Delete(tokenKey)
	})
}

// PrefStore persists presentation preferences.
type PrefStore struct {
	Driver *Driver
}

func (s *PrefStore) SaveDarkMode(on bool) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(on)
		if err != nil {
			return err
		}
		return tx.Bucket(prefsBucket).Put(darkModeKey, data)
	})
}

func (s *PrefStore) DarkMode() (bool, error) {
	var on bool
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(prefsBucket).Get(darkModeKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &on)
	})
	if err != nil {
		return false, err
	}

	return on, nil
}
