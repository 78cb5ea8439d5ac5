package helpers

import (
	"testing"

	"github.com/xiaot623/callbuddy/internal/repository"
)

func NewTestSQLiteJournal(t *testing.T) *repository.SQLiteJournal {
	t.Helper()

	j, err := repository.NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("failed to create sqlite journal: %v", err)
	}

	t.Cleanup(func() {
		_ = j.Close()
	})

	return j
}
