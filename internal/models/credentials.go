package models

import "fmt"

// Credentials is the credential pair of a logged in user together with the
// user profile returned at login. It is persisted as a single JSON record.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Empty is true when there is no access token and no refresh token.
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Merge returns the credentials updated with a refreshed pair. The refresh token is
// only replaced when the backend rotated it, the user profile is always retained.
func (c Credentials) Merge(accessToken, refreshToken string) Credentials {
	output := c
	output.AccessToken = accessToken
	if refreshToken != "" {
		output.RefreshToken = refreshToken
	}
	return output
}

// Encrypt encrypts the token values if an encryptor is set
func (c Credentials) Encrypt(enc Encryptor) (Credentials, error) {
	if enc == nil {
		return c, nil
	}
	output := c
	var err error
	if output.AccessToken, err = encryptValue(enc, c.AccessToken); err != nil {
		return Credentials{}, err
	}
	if output.RefreshToken, err = encryptValue(enc, c.RefreshToken); err != nil {
		return Credentials{}, err
	}
	return output, nil
}

// Decrypt decrypts the token values if an encryptor is set
func (c Credentials) Decrypt(enc Encryptor) (Credentials, error) {
	if enc == nil {
		return c, nil
	}
	output := c
	var err error
	if output.AccessToken, err = decryptValue(enc, c.AccessToken); err != nil {
		return Credentials{}, err
	}
	if output.RefreshToken, err = decryptValue(enc, c.RefreshToken); err != nil {
		return Credentials{}, err
	}
	return output, nil
}

// String implements the Stringer interface for printing the credentials in logs
func (c Credentials) String() string {
	userID := ""
	if c.User != nil {
		userID = c.User.ID
	}
	return fmt.Sprintf(
		"Credentials<AccessToken: %s, RefreshToken: %s, UserID: %s>",
		redact(c.AccessToken),
		redact(c.RefreshToken),
		userID,
	)
}

func encryptValue(enc Encryptor, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return enc.Encrypt(value)
}

func decryptValue(enc Encryptor, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	return enc.Decrypt(value)
}

func redact(value string) string {
	if value == "" {
		return "<empty>"
	}
	return "redacted"
}
