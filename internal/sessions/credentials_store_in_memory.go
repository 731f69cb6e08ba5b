package sessions

import (
	"context"
	"sync"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/models"
)

// InMemoryCredentialsStore keeps the credentials only for the lifetime of the process.
type InMemoryCredentialsStore struct {
	lock        *sync.RWMutex
	credentials *models.Credentials
}

func (db *InMemoryCredentialsStore) GetCredentials(ctx context.Context) (models.Credentials, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()
	if db.credentials == nil {
		return models.Credentials{}, apierrors.ErrCredentialsNotFound
	}
	return *db.credentials, nil
}

func (db *InMemoryCredentialsStore) SetCredentials(ctx context.Context, credentials models.Credentials) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	db.credentials = &credentials
	return nil
}

func (db *InMemoryCredentialsStore) RemoveCredentials(ctx context.Context) error {
	db.lock.Lock()
	defer db.lock.Unlock()
	db.credentials = nil
	return nil
}

func NewInMemoryCredentialsStore() *InMemoryCredentialsStore {
	return &InMemoryCredentialsStore{lock: &sync.RWMutex{}}
}
