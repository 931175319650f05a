package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerSignAndVerify(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, err := signer.Sign("job-1", "seating/all_rooms.csv")
	require.NoError(t, err)
	require.NotEmpty(t, token.Value)

	claims, err := signer.Verify(token.Value, false)
	require.NoError(t, err)
	require.Equal(t, "job-1", claims.JobID)
	require.Equal(t, "seating/all_rooms.csv", claims.Path)
	require.WithinDuration(t, token.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	now := time.Now()
	signer.now = func() time.Time { return now }
	token, err := signer.Sign("job-1", "seating/all_rooms.csv")
	require.NoError(t, err)

	signer.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = signer.Verify(token.Value, false)
	require.Error(t, err)

	claims, err := signer.Verify(token.Value, true)
	require.NoError(t, err)
	require.Equal(t, "job-1", claims.JobID)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, err := signer.Sign("job-1", "seating/all_rooms.csv")
	require.NoError(t, err)

	parts := strings.Split(token.Value, ".")
	parts[0] = "job-2"
	_, err = signer.Verify(strings.Join(parts, "."), false)
	require.Error(t, err)

	_, err = NewSignedURLSigner("other", time.Hour).Verify(token.Value, false)
	require.Error(t, err)

	_, err = signer.Sign("job.1", "x.csv")
	require.Error(t, err)
}
