package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	v, err := parseVersion("0002_toggl_projects.sql")
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = parseVersion("toggl.sql")
	assert.Error(t, err)
	_, err = parseVersion("_x.sql")
	assert.Error(t, err)
	_, err = parseVersion("abc_x.sql")
	assert.Error(t, err)
}

func TestList_Embedded(t *testing.T) {
	all, err := list(migrationsFS)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].version)
	assert.Equal(t, "sql/0001_toggl_time_entries.sql", all[0].file)
	assert.Equal(t, 2, all[1].version)
}

func TestList_OrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/10_c.sql": {Data: []byte("SELECT 1;")},
		"sql/2_b.sql":  {Data: []byte("SELECT 1;")},
		"sql/1_a.sql":  {Data: []byte("SELECT 1;")},
	}
	all, err := list(fsys)
	require.NoError(t, err)

	var versions []int
	for _, m := range all {
		versions = append(versions, m.version)
	}
	assert.Equal(t, []int{1, 2, 10}, versions)
}

func TestList_RejectsDuplicatesAndBadNames(t *testing.T) {
	_, err := list(fstest.MapFS{
		"sql/1_a.sql":    {Data: []byte("")},
		"sql/0001_b.sql": {Data: []byte("")},
	})
	assert.ErrorContains(t, err, "duplicate migration version 1")

	_, err = list(fstest.MapFS{"sql/init.sql": {Data: []byte("")}})
	assert.ErrorContains(t, err, "invalid migration filename")
}

func TestPending(t *testing.T) {
	all := []migration{{version: 1}, {version: 2}, {version: 3}}
	got := pending(all, map[int]bool{1: true, 3: true})
	assert.Equal(t, []migration{{version: 2}}, got)
	assert.Empty(t, pending(all, map[int]bool{1: true, 2: true, 3: true}))
}
