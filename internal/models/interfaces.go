package models

import "context"

type Encryptor interface {
	Encrypt(value string) (encrypted string, err error)
	Decrypt(value string) (decrypted string, err error)
}

type IDGenerator interface {
	ID() (string, error)
}

type CredentialsGetter interface {
	GetCredentials(ctx context.Context) (Credentials, error)
}

type CredentialsSetter interface {
	SetCredentials(ctx context.Context, credentials Credentials) error
}

type CredentialsRemover interface {
	RemoveCredentials(ctx context.Context) error
}

// CredentialsRepository represents the interface used to persist the credential pair
type CredentialsRepository interface {
	CredentialsGetter
	CredentialsSetter
	CredentialsRemover
}
