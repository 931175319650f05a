package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SignedToken is an opaque download token and its expiry.
type SignedToken struct {
	Value     string
	ExpiresAt time.Time
}

// TokenClaims are the fields recovered from a valid token.
type TokenClaims struct {
	JobID     string
	Path      string
	ExpiresAt time.Time
}

// SignedURLSigner creates and validates signed download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Sign returns a token binding jobID to relPath until now+ttl.
// Format: jobID.expiryUnix.base64(path).hexHMAC
func (s *SignedURLSigner) Sign(jobID, relPath string) (SignedToken, error) {
	if jobID == "" || relPath == "" {
		return SignedToken{}, fmt.Errorf("jobID and relPath required")
	}
	if strings.Contains(jobID, ".") {
		return SignedToken{}, fmt.Errorf("jobID must not contain '.'")
	}
	if len(s.secret) == 0 {
		return SignedToken{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	token := strings.Join([]string{jobID, ts, encodedPath, s.mac(jobID, ts, encodedPath)}, ".")
	return SignedToken{Value: token, ExpiresAt: expiresAt}, nil
}

// Verify validates a token and returns the embedded claims. When
// allowExpired is true the expiry check is skipped (cleanup routines).
func (s *SignedURLSigner) Verify(token string, allowExpired bool) (TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return TokenClaims{}, fmt.Errorf("invalid token format")
	}
	jobID, ts, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	if !hmac.Equal([]byte(s.mac(jobID, ts, encodedPath)), []byte(signature)) {
		return TokenClaims{}, fmt.Errorf("invalid token signature")
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return TokenClaims{}, fmt.Errorf("invalid timestamp")
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return TokenClaims{}, fmt.Errorf("decode path: %w", err)
	}
	claims := TokenClaims{JobID: jobID, Path: string(rawPath), ExpiresAt: time.Unix(expUnix, 0)}
	if !allowExpired && s.now().After(claims.ExpiresAt) {
		return TokenClaims{}, fmt.Errorf("token expired")
	}
	return claims, nil
}

func (s *SignedURLSigner) mac(jobID, ts, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(jobID + "|" + ts + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
