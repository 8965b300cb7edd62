package repositories

import (
	"testing"

	"github.com/desertthunder/songq/internal/models"
	"github.com/desertthunder/songq/internal/shared"
)

func TestSnapshotRepositoryErrors(t *testing.T) {
	closedRepo := func(t *testing.T) *SnapshotRepository {
		t.Helper()
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		db.Close()
		return NewSnapshotRepository(db)
	}

	t.Run("Create", func(t *testing.T) {
		t.Run("ClosedDatabase", func(t *testing.T) {
			repo := closedRepo(t)
			if err := repo.Create(models.NewSnapshot("x", "", "SEQUENCE:0\n", 0, 0)); err == nil {
				t.Fatal("expected error creating snapshot on closed database")
			}
		})

		t.Run("ValidationError", func(t *testing.T) {
			repo := NewSnapshotRepository(setupTestDB(t))
			if err := repo.Create(models.NewSnapshot("x", "", "", -1, 0)); err == nil {
				t.Fatal("expected validation error for negative song count")
			}

			if _, err := repo.Latest(); err == nil {
				t.Error("invalid snapshot should not be stored")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		if _, err := closedRepo(t).Get("id"); err == nil {
			t.Fatal("expected error on closed database")
		}
	})

	t.Run("List", func(t *testing.T) {
		if _, err := closedRepo(t).List(10); err == nil {
			t.Fatal("expected error on closed database")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("NotFound", func(t *testing.T) {
			repo := NewSnapshotRepository(setupTestDB(t))
			if err := repo.Delete("nonexistent-id"); err == nil {
				t.Fatal("expected error when deleting nonexistent snapshot")
			}
		})

		t.Run("ClosedDatabase", func(t *testing.T) {
			if err := closedRepo(t).Delete("id"); err == nil {
				t.Fatal("expected error on closed database")
			}
		})
	})
}
