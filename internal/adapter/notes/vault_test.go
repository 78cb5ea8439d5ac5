package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/callbuddy/internal/domain"
)

var morningTime = time.Date(2026, 3, 2, 8, 15, 0, 0, time.UTC)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestVaultWriteMorning(t *testing.T) {
	root := t.TempDir()
	vault := NewVault(root)

	path, err := vault.WriteMorning(MorningEntry{
		CallID:     "call-1",
		CallStatus: domain.CallStatusEnded,
		CallTime:   morningTime,
		Goals:      []string{"Walk", "Read"},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Accountability", "Daily Logs", "2026-03-02-accountability.md"), path)

	content := readFile(t, path)
	assert.True(t, strings.HasPrefix(content, "---\n"))
	assert.Contains(t, content, "1. [ ] Walk\n2. [ ] Read")
	assert.Contains(t, content, "Evening Review 🌙 - *Pending...*")

	meta, err := parseFrontmatter(content)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", meta.Date)
	assert.Equal(t, "call-1", meta.MorningCallID)
	assert.Equal(t, "ended", meta.MorningCallStatus)
	assert.Equal(t, "2026-03-02T08:15:00Z", meta.MorningTime)
	assert.Empty(t, meta.EveningTime)
	assert.Empty(t, meta.CompletedGoals)

	note := readFile(t, filepath.Join(root, "Daily Notes", "2026-03-02.md"))
	assert.Equal(t, "# Monday, March 02, 2026\n\n## Accountability\n![[2026-03-02-accountability]]\n", note)
}

func TestVaultWriteMorningWithoutGoals(t *testing.T) {
	vault := NewVault(t.TempDir())
	path, err := vault.WriteMorning(MorningEntry{CallTime: morningTime})
	require.NoError(t, err)
	assert.Contains(t, readFile(t, path), "No goals recorded.")
}

func TestVaultDailyNoteLinking(t *testing.T) {
	tests := []struct {
		name     string
		existing string
		want     string
	}{
		{
			name:     "inserted under existing section",
			existing: "# Day\n\n## Accountability\n\n## Journal\nwrote stuff\n",
			want:     "# Day\n\n## Accountability\n\n![[2026-03-02-accountability]]\n\n## Journal\nwrote stuff\n",
		},
		{
			name:     "section appended",
			existing: "# Day\nnotes\n",
			want:     "# Day\nnotes\n\n## Accountability\n![[2026-03-02-accountability]]\n",
		},
		{
			name:     "already linked",
			existing: "# Day\n![[2026-03-02-accountability]]\n",
			want:     "# Day\n![[2026-03-02-accountability]]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			vault := NewVault(root)
			notePath := vault.DailyNotePath(morningTime)
			require.NoError(t, os.MkdirAll(filepath.Dir(notePath), 0o755))
			require.NoError(t, os.WriteFile(notePath, []byte(tt.existing), 0o644))

			_, err := vault.WriteMorning(MorningEntry{CallTime: morningTime, Goals: []string{"Walk"}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, readFile(t, notePath))
		})
	}
}

func TestVaultWriteEvening(t *testing.T) {
	root := t.TempDir()
	vault := NewVault(root)
	goals := []string{"Walk", "Read", "Cook"}

	_, err := vault.WriteMorning(MorningEntry{CallID: "call-1", CallStatus: domain.CallStatusEnded, CallTime: morningTime, Goals: goals})
	require.NoError(t, err)

	eveningTime := morningTime.Add(11 * time.Hour)
	path, err := vault.WriteEvening(EveningEntry{
		CallID:      "call-2",
		CallTime:    eveningTime,
		Goals:       goals,
		Completed:   []bool{true, false, true},
		Reflections: "  Long day.  ",
	})
	require.NoError(t, err)
	require.NotEmpty(t, path)

	content := readFile(t, path)
	assert.Contains(t, content, "1. [x] Walk\n2. [ ] Read\n3. [x] Cook")
	assert.Contains(t, content, "- Completion Rate: 66%")
	assert.Contains(t, content, "- Completed:\n  - ✅ Walk\n  - ✅ Cook")
	assert.Contains(t, content, "- Not Completed:\n  - ⚪️ Read")
	assert.Contains(t, content, "### Reflections\nLong day.\n")
	assert.NotContains(t, content, "Pending")

	meta, err := parseFrontmatter(content)
	require.NoError(t, err)
	assert.Equal(t, "call-1", meta.MorningCallID)
	assert.Equal(t, "call-2", meta.EveningCallID)
	assert.Equal(t, 66, meta.CompletionRate)
	assert.Equal(t, []string{"Walk", "Cook"}, meta.CompletedGoals)
	assert.Equal(t, "2026-03-02T19:15:00Z", meta.EveningTime)
}

func TestVaultWriteEveningSkips(t *testing.T) {
	vault := NewVault(t.TempDir())

	path, err := vault.WriteEvening(EveningEntry{CallTime: morningTime})
	require.NoError(t, err)
	assert.Empty(t, path, "no goals")

	path, err = vault.WriteEvening(EveningEntry{CallTime: morningTime, Goals: []string{"Walk"}, Completed: []bool{true}})
	require.NoError(t, err)
	assert.Empty(t, path, "no morning entry")
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0, EveningEntry{}.CompletionRate())
	assert.Equal(t, 33, EveningEntry{Goals: []string{"a", "b", "c"}, Completed: []bool{true}}.CompletionRate())
	assert.Equal(t, 100, EveningEntry{Goals: []string{"a"}, Completed: []bool{true}}.CompletionRate())
}
