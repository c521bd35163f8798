package repofakes

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/jrsteele09/twitter-connect/sessions"
)

var _ sessions.Store = (*FakeStore)(nil)

// FakeStore is an in-memory session store. Saved data is round-tripped
// through JSON so tests observe exactly what a real store would persist.
type FakeStore struct {
	lock    sync.Mutex
	data    *sessions.Data
	loaded  *sessions.Data
	saves   int
	SaveErr error
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

// NewFakeStoreWith seeds the store with previously saved data.
func NewFakeStoreWith(data *sessions.Data) *FakeStore {
	fs := &FakeStore{}
	fs.data = roundTrip(data)
	return fs
}

func (fs *FakeStore) Load(_ context.Context) (*sessions.Data, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.loaded == nil {
		fs.loaded = roundTrip(fs.data)
		if fs.loaded == nil {
			fs.loaded = &sessions.Data{}
		}
	}
	return fs.loaded, nil
}

func (fs *FakeStore) Save(_ context.Context, data *sessions.Data) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if fs.SaveErr != nil {
		return fs.SaveErr
	}
	if data == nil {
		return errors.New("nil session data")
	}
	fs.data = roundTrip(data)
	fs.loaded = data
	fs.saves++
	return nil
}

// NewRequest simulates the next request carrying the saved cookie: the
// next Load reads the persisted copy rather than the in-flight one.
func (fs *FakeStore) NewRequest() {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	fs.loaded = nil
}

// Persisted returns a copy of what was last saved.
func (fs *FakeStore) Persisted() *sessions.Data {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return roundTrip(fs.data)
}

// Saves returns how many times Save succeeded.
func (fs *FakeStore) Saves() int {
	fs.lock.Lock()
	defer fs.lock.Unlock()
	return fs.saves
}

func roundTrip(data *sessions.Data) *sessions.Data {
	if data == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	var out sessions.Data
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	return &out
}
