package config

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups internhunt secrets in the OS keychain.
const KeyringService = "internhunt"

func linkedInAccount(email string) string {
	return "linkedin:" + strings.ToLower(strings.TrimSpace(email))
}

func LinkedInPassword(email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", errors.New("linkedin email is empty")
	}
	pw, err := keyring.Get(KeyringService, linkedInAccount(email))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(pw) == "" {
		return "", keyring.ErrNotFound
	}
	return pw, nil
}

func SetLinkedInPassword(email string, password string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("linkedin email is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, linkedInAccount(email), password)
}

func DeleteLinkedInPassword(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("linkedin email is empty")
	}
	return keyring.Delete(KeyringService, linkedInAccount(email))
}
