package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRecoCSV(t *testing.T) {
	path := writeTempCSV(t, "user_id,item_id,rank\nu1,i1,1\nu1,i2,2\nu2,i1,1\n")

	reco, err := LoadRecoCSV(path)
	require.NoError(t, err)

	want := []RecoRow{
		{User: "u1", Item: "i1", Rank: 1},
		{User: "u1", Item: "i2", Rank: 2},
		{User: "u2", Item: "i1", Rank: 1},
	}
	assert.Equal(t, want, reco)
}

func TestLoadRecoCSV_ColumnOrderIsFlexible(t *testing.T) {
	path := writeTempCSV(t, "rank,user_id,item_id\n1,u1,i1\n")

	reco, err := LoadRecoCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []RecoRow{{User: "u1", Item: "i1", Rank: 1}}, reco)
}

func TestLoadRecoCSV_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "user_id,item_id\nu1,i1\n")

	_, err := LoadRecoCSV(path)
	assert.ErrorContains(t, err, "rank")
}

func TestLoadRecoCSV_InvalidRank(t *testing.T) {
	path := writeTempCSV(t, "user_id,item_id,rank\nu1,i1,first\n")

	_, err := LoadRecoCSV(path)
	assert.ErrorContains(t, err, "invalid rank")
}

func TestLoadRecoCSV_MissingFile(t *testing.T) {
	_, err := LoadRecoCSV(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoadInteractionsCSV(t *testing.T) {
	path := writeTempCSV(t, "user_id,item_id\nu1,i1\nu2,i9\n")

	interactions, err := LoadInteractionsCSV(path)
	require.NoError(t, err)

	want := []Interaction{
		{User: "u1", Item: "i1"},
		{User: "u2", Item: "i9"},
	}
	assert.Equal(t, want, interactions)
}

func TestLoadInteractionsCSV_EmptyBody(t *testing.T) {
	path := writeTempCSV(t, "user_id,item_id\n")

	interactions, err := LoadInteractionsCSV(path)
	require.NoError(t, err)
	assert.Empty(t, interactions)
}
