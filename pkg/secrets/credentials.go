/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package secrets

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	pferrors "github.com/NVIDIA/playfit/pkg/errors"
)

// Credentials are the Steam account details needed to fetch a library.
type Credentials struct {
	SteamID string `json:"STEAM_ID" yaml:"STEAM_ID"`
	APIKey  string `json:"API_KEY" yaml:"API_KEY"`
}

// Masked returns a copy safe for display.
func (c Credentials) Masked() Credentials {
	return Credentials{SteamID: Mask(c.SteamID), APIKey: Mask(c.APIKey)}
}

// Mask hides all but the last four characters of v.
func Mask(v string) string {
	switch {
	case v == "":
		return ""
	case len(v) <= 4:
		return "****"
	default:
		return "****..." + v[len(v)-4:]
	}
}

// ReadKeyFile returns the key material stored at path.
func ReadKeyFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", pferrors.WrapWithContext(pferrors.ErrCodeNotFound, "key file not found", err,
				map[string]any{"path": path})
		}
		return "", pferrors.WrapWithContext(pferrors.ErrCodeInternal, "failed to read key file", err,
			map[string]any{"path": path})
	}
	key := strings.TrimSpace(string(b))
	if key == "" {
		return "", pferrors.WrapWithContext(pferrors.ErrCodeDataFormat, "key file is empty", ErrEmptyKey,
			map[string]any{"path": path})
	}
	return key, nil
}

// EnsureKeyFile returns the key stored at path, generating and writing a new
// one (mode 0600) when the file does not exist.
func EnsureKeyFile(path string) (key string, created bool, err error) {
	key, err = ReadKeyFile(path)
	if err == nil {
		return key, false, nil
	}
	if !pferrors.IsCode(err, pferrors.ErrCodeNotFound) {
		return "", false, err
	}

	if key, err = GenerateKey(); err != nil {
		return "", false, pferrors.Wrap(pferrors.ErrCodeInternal, "failed to generate key", err)
	}
	if err := writePrivate(path, []byte(key+"\n")); err != nil {
		return "", false, err
	}
	slog.Debug("generated new key file", slog.String("path", path))
	return key, true, nil
}

// SaveCredentials seals creds with the key in keyPath and writes the result
// to sealedPath.
func SaveCredentials(keyPath, sealedPath string, creds Credentials) error {
	if strings.TrimSpace(creds.SteamID) == "" || strings.TrimSpace(creds.APIKey) == "" {
		return pferrors.New(pferrors.ErrCodeInvalidRequest, "steam ID and API key are both required")
	}

	key, err := ReadKeyFile(keyPath)
	if err != nil {
		return err
	}
	s, err := NewSealer(key)
	if err != nil {
		return pferrors.Wrap(pferrors.ErrCodeInternal, "failed to create sealer", err)
	}

	plain, err := json.Marshal(creds)
	if err != nil {
		return pferrors.Wrap(pferrors.ErrCodeInternal, "failed to encode credentials", err)
	}
	sealed, err := s.Seal(plain)
	if err != nil {
		return pferrors.Wrap(pferrors.ErrCodeInternal, "failed to seal credentials", err)
	}
	return writePrivate(sealedPath, sealed)
}

// LoadCredentials opens the credentials sealed at sealedPath with the key in
// keyPath.
func LoadCredentials(keyPath, sealedPath string) (Credentials, error) {
	key, err := ReadKeyFile(keyPath)
	if err != nil {
		return Credentials{}, err
	}
	s, err := NewSealer(key)
	if err != nil {
		return Credentials{}, pferrors.Wrap(pferrors.ErrCodeInternal, "failed to create sealer", err)
	}

	sealed, err := os.ReadFile(sealedPath)
	if err != nil {
		code := pferrors.ErrCodeInternal
		if errors.Is(err, os.ErrNotExist) {
			code = pferrors.ErrCodeNotFound
		}
		return Credentials{}, pferrors.WrapWithContext(code, "failed to read sealed credentials", err,
			map[string]any{"path": sealedPath})
	}

	plain, err := s.Open(sealed)
	if err != nil {
		code := pferrors.ErrCodeDataFormat
		if errors.Is(err, ErrOpenFailed) {
			code = pferrors.ErrCodeUnauthorized
		}
		return Credentials{}, pferrors.WrapWithContext(code, "failed to open sealed credentials", err,
			map[string]any{"path": sealedPath})
	}

	var creds Credentials
	if err := json.Unmarshal(plain, &creds); err != nil {
		return Credentials{}, pferrors.Wrap(pferrors.ErrCodeDataFormat, "sealed credentials are not valid JSON", err)
	}
	return creds, nil
}

func writePrivate(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return pferrors.WrapWithContext(pferrors.ErrCodeInternal, "failed to create directory", err,
				map[string]any{"path": dir})
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return pferrors.WrapWithContext(pferrors.ErrCodeInternal, "failed to write file", err,
			map[string]any{"path": path})
	}
	return nil
}
