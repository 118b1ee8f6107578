package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FSStorage stores objects on the local filesystem and serves them back
// through the /files route. Signed URLs carry an expiry and an HMAC so the
// raw object path is never exposed directly.
type FSStorage struct {
	dir     string
	baseURL string
	secret  []byte
}

func NewFSStorage(dir, baseURL string, secret []byte) *FSStorage {
	return &FSStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
	}
}

func (s *FSStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	return s.baseURL + "/files/" + key, nil
}

func (s *FSStorage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if err := validKey(key); err != nil {
		return "", err
	}

	exp := time.Now().Add(ttl).Unix()
	sig := s.sign(key, exp)
	return fmt.Sprintf("%s/files/%s?exp=%d&sig=%s", s.baseURL, key, exp, sig), nil
}

// Open returns the stored object for the file-serving route.
func (s *FSStorage) Open(key string) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(key)))
}

// VerifySignature checks a signed-URL token. Expired or tampered tokens fail.
func (s *FSStorage) VerifySignature(key string, exp int64, sig string) bool {
	if time.Now().Unix() > exp {
		return false
	}
	expected := s.sign(key, exp)
	return hmac.Equal([]byte(expected), []byte(sig))
}

func (s *FSStorage) sign(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(key))
	mac.Write([]byte("|"))
	mac.Write([]byte(strconv.FormatInt(exp, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func validKey(key string) error {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
