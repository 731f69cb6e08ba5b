package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/alif-arrizqy/allboom-app/internal/apierrors"
	"github.com/alif-arrizqy/allboom-app/internal/config"
	"github.com/alif-arrizqy/allboom-app/internal/models"
)

// FileAdapter persists credential records in a JSON file on disk, one record per key.
// The file plays the role of the browser local storage of the web dashboard.
type FileAdapter struct {
	lock      sync.Mutex
	path      string
	key       string
	encryptor models.Encryptor
}

type FileAdapterOption func(*FileAdapter) error

func WithFilePath(path string) FileAdapterOption {
	return func(f *FileAdapter) error {
		if path == "" {
			return fmt.Errorf("the session file path cannot be empty")
		}
		f.path = path
		return nil
	}
}

func WithFileKey(key string) FileAdapterOption {
	return func(f *FileAdapter) error {
		if key == "" {
			return fmt.Errorf("the session key cannot be empty")
		}
		f.key = key
		return nil
	}
}

func WithFileEncryption(secretKey string) FileAdapterOption {
	return func(f *FileAdapter) error {
		encryptor, err := NewGCMEncryptor(secretKey)
		if err != nil {
			return err
		}
		f.encryptor = encryptor
		return nil
	}
}

func NewFileAdapter(options ...FileAdapterOption) (*FileAdapter, error) {
	f := FileAdapter{key: config.DefaultSessionKey}
	for _, opt := range options {
		err := opt(&f)
		if err != nil {
			return &FileAdapter{}, err
		}
	}
	if f.path == "" {
		return &FileAdapter{}, fmt.Errorf("session file path is not initialized")
	}
	return &f, nil
}

func (f *FileAdapter) GetCredentials(ctx context.Context) (models.Credentials, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	records, err := f.read()
	if err != nil {
		return models.Credentials{}, err
	}
	raw, found := records[f.key]
	if !found {
		return models.Credentials{}, apierrors.ErrCredentialsNotFound
	}
	return decodeCredentials(raw, f.encryptor)
}

func (f *FileAdapter) SetCredentials(ctx context.Context, credentials models.Credentials) error {
	raw, err := encodeCredentials(credentials, f.encryptor)
	if err != nil {
		return err
	}
	f.lock.Lock()
	defer f.lock.Unlock()
	records, err := f.read()
	if err != nil {
		return err
	}
	records[f.key] = raw
	slog.Debug(
		"CREDENTIALS STORE",
		"message",
		"saving credentials",
		"credentials",
		credentials,
		"backend",
		"file",
	)
	return f.write(records)
}

// RemoveCredentials removes the record of this adapter's key, other keys in the file are kept.
func (f *FileAdapter) RemoveCredentials(ctx context.Context) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	records, err := f.read()
	if err != nil {
		return err
	}
	if _, found := records[f.key]; !found {
		return nil
	}
	delete(records, f.key)
	return f.write(records)
}

func (f *FileAdapter) read() (map[string]json.RawMessage, error) {
	records := map[string]json.RawMessage{}
	content, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return records, nil
	}
	err = json.Unmarshal(content, &records)
	if err != nil {
		return nil, errors.Join(apierrors.ErrCredentialsParse, err)
	}
	return records, nil
}

// write replaces the file atomically so a crash never leaves a half written record behind.
func (f *FileAdapter) write(records map[string]json.RawMessage) error {
	content, err := json.Marshal(records)
	if err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
