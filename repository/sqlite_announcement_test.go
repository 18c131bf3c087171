package repository

import (
	"context"
	"database/sql"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/anjuman/hub/database"
	"github.com/anjuman/hub/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConn(t *testing.T) *sql.DB {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "repo_test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db.Conn
}

func createTestUser(t *testing.T, conn *sql.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x"}
	require.NoError(t, NewSQLiteUserRepo(conn).Create(context.Background(), user))
	return user
}

func TestMarkReadTwiceKeepsSingleRow(t *testing.T) {
	conn := newTestConn(t)
	ctx := context.Background()

	user := createTestUser(t, conn, "mustafa")
	repo := NewSQLiteAnnouncementRepo(conn)

	a := &models.Announcement{
		Title:      "Jamaat dinner",
		Content:    "Thursday after maghrib",
		AuthorID:   user.ID,
		AuthorName: "mustafa",
		Category:   "general",
		Status:     models.AnnouncementStatusSent,
	}
	require.NoError(t, repo.Create(ctx, a))

	// Composite PK + INSERT OR IGNORE: ikinci işaret hata DEĞİLDİR
	// ve ikinci bir satır oluşturmaz.
	require.NoError(t, repo.MarkRead(ctx, a.ID, user.ID))
	require.NoError(t, repo.MarkRead(ctx, a.ID, user.ID))

	stored, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{user.ID}, stored.ReadBy)

	var rows int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM announcement_reads WHERE announcement_id = ? AND user_id = ?`,
		a.ID, user.ID,
	).Scan(&rows))
	assert.Equal(t, 1, rows)

	count, err := repo.CountUnread(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
