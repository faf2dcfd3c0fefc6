package bolt

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var buckets = [][]byte{
	credentialsBucket,
	prefsBucket,
}

// Driver wraps the bolt database holding the locally persisted state:
// the session credentials and the user preferences.
type Driver struct {
	store *bolt.DB
}

func (d *Driver) Open(path string) error {
	store, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return err
	}

	err = store.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("create bucket: %s", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.store = store
	return nil
}

func (d *Driver) Close() error {
	if d.store == nil {
		return nil
	}
	return d.store.Close()
}
