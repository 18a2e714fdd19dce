package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/enrollment/internal/app/migrations"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "none.yaml")))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func TestSQLPrintsCreateStatementsInOrder(t *testing.T) {
	out := run(t, "sql")

	users := strings.Index(out, `CREATE TABLE "users"`)
	students := strings.Index(out, `CREATE TABLE "students"`)
	documents := strings.Index(out, `CREATE TABLE "documents"`)
	require.True(t, users >= 0 && students >= 0 && documents >= 0, out)
	assert.Less(t, users, students)
	assert.Less(t, students, documents)
	assert.Contains(t, out, "-- 0001_01_01_000006 create_students_table\n")
}

func TestSQLDownPrintsDropsInReverse(t *testing.T) {
	out := run(t, "sql", "--down")
	t.Cleanup(func() { _ = sqlCmd.Flags().Set("down", "false") })

	documents := strings.Index(out, `DROP TABLE IF EXISTS "documents";`)
	users := strings.Index(out, `DROP TABLE IF EXISTS "users";`)
	require.True(t, documents >= 0 && users >= 0, out)
	assert.Less(t, documents, users)
	assert.NotContains(t, out, "CREATE TABLE")
}

func TestDiagram(t *testing.T) {
	out := run(t, "diagram")

	assert.True(t, strings.HasPrefix(out, "erDiagram\n"))
	assert.Contains(t, out, "STUDENTS ||--o{ APPLICATIONS : student_id")
	assert.Contains(t, out, "USERS ||--|| STUDENTS : user_id")
}

func TestRenderStatus(t *testing.T) {
	at := time.Date(2024, 9, 1, 12, 30, 0, 0, time.UTC)
	var out bytes.Buffer
	renderStatus(&out, []migrations.Status{
		{Version: "0001", Name: "create_users_table", Applied: true, Batch: 1, AppliedAt: &at},
		{Version: "0002", Name: "create_students_table"},
		{Version: "0000", Name: "ghost", Applied: true, Batch: 1, AppliedAt: &at, Missing: true},
	})

	lines := strings.Split(out.String(), "\n")
	var users, students, ghost string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "create_users_table"):
			users = l
		case strings.Contains(l, "create_students_table"):
			students = l
		case strings.Contains(l, "ghost"):
			ghost = l
		}
	}
	assert.Contains(t, users, "2024-09-01 12:30:00")
	assert.Contains(t, users, "Ran")
	assert.Contains(t, students, "Pending")
	assert.Contains(t, ghost, "Missing")
}

func TestReportCount(t *testing.T) {
	tests := []struct {
		name string
		n    int
		err  error
		want string
	}{
		{"applied", 3, nil, "Applied 3 migration(s).\n"},
		{"nothing", 0, nil, "Nothing to do.\n"},
		{"partial", 2, errors.New("boom"), "Applied 2 migration(s) before failing.\n"},
		{"failed first", 0, errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := reportCount(&out, "Applied", tt.n, tt.err)
			assert.Equal(t, tt.err, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}
