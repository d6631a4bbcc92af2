package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestRepository_GetEmpty(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newDigestRepo(db.conn)

	digest, err := repo.Get()
	require.NoError(t, err)
	assert.Empty(t, digest)
}

func TestDigestRepository_SetOverwrites(t *testing.T) {
	db := SetupTestDB(t)
	defer CleanupTestDB(t, db)

	repo := newDigestRepo(db.conn)

	require.NoError(t, repo.Set("aaa"))
	require.NoError(t, repo.Set("bbb"))

	digest, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, "bbb", digest)
}
