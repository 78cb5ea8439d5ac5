package notes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Vault paths, relative to the vault root.
var (
	AccountabilityDir = filepath.Join("Accountability", "Daily Logs")
	DailyNotesDir     = "Daily Notes"
)

const dateLayout = "2006-01-02"

// entryMetadata is the frontmatter of a daily accountability entry.
type entryMetadata struct {
	Date              string   `yaml:"date"`
	MorningTime       string   `yaml:"morning_time"`
	MorningCallID     string   `yaml:"morning_call_id"`
	MorningCallStatus string   `yaml:"morning_call_status"`
	EveningTime       string   `yaml:"evening_time"`
	EveningCallID     string   `yaml:"evening_call_id"`
	CompletionRate    int      `yaml:"completion_rate"`
	CompletedGoals    []string `yaml:"completed_goals"`
}

// Vault writes accountability entries into an Obsidian vault on disk.
type Vault struct {
	root string
}

// NewVault returns a vault rooted at dir.
func NewVault(dir string) *Vault {
	return &Vault{root: dir}
}

// EntryPath returns the accountability entry path for the date of t.
func (v *Vault) EntryPath(t time.Time) string {
	return filepath.Join(v.root, AccountabilityDir, t.Format(dateLayout)+"-accountability.md")
}

// DailyNotePath returns the daily note path for the date of t.
func (v *Vault) DailyNotePath(t time.Time) string {
	return filepath.Join(v.root, DailyNotesDir, t.Format(dateLayout)+".md")
}

// WriteMorning creates (or overwrites) the day's entry and links it from
// the daily note.
func (v *Vault) WriteMorning(entry MorningEntry) (string, error) {
	path := v.EntryPath(entry.CallTime)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create entry dir: %w", err)
	}

	meta := entryMetadata{
		Date:              entry.CallTime.Format(dateLayout),
		MorningTime:       entry.CallTime.Format(time.RFC3339),
		MorningCallID:     entry.CallID,
		MorningCallStatus: string(entry.CallStatus),
		CompletedGoals:    []string{},
	}
	content, err := renderMorning(meta, entry.Goals)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write morning entry: %w", err)
	}

	if err := v.linkDailyNote(entry.CallTime); err != nil {
		return "", err
	}
	return path, nil
}

// WriteEvening adds the review to the day's entry. It returns "" without
// error when there are no goals or no morning entry for that day.
func (v *Vault) WriteEvening(entry EveningEntry) (string, error) {
	if len(entry.Goals) == 0 {
		return "", nil
	}

	path := v.EntryPath(entry.CallTime)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read morning entry: %w", err)
	}

	meta, err := parseFrontmatter(string(data))
	if err != nil {
		return "", err
	}
	if meta.Date == "" {
		meta.Date = entry.CallTime.Format(dateLayout)
	}
	meta.EveningTime = entry.CallTime.Format(time.RFC3339)
	meta.EveningCallID = entry.CallID
	meta.CompletionRate = entry.CompletionRate()
	meta.CompletedGoals = []string{}
	for i, goal := range entry.Goals {
		if entry.done(i) {
			meta.CompletedGoals = append(meta.CompletedGoals, goal)
		}
	}

	content, err := renderEvening(meta, entry)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write evening entry: %w", err)
	}
	return path, nil
}

func renderMorning(meta entryMetadata, goals []string) (string, error) {
	front, err := frontmatter(meta)
	if err != nil {
		return "", err
	}
	body := []string{
		front,
		"# Morning Accountability",
		"",
		"## Goals",
		goalList(goals, nil),
		"",
		"## Evening Review 🌙",
		"Evening Review 🌙 - *Pending...*",
	}
	return strings.Join(body, "\n") + "\n", nil
}

func renderEvening(meta entryMetadata, entry EveningEntry) (string, error) {
	front, err := frontmatter(meta)
	if err != nil {
		return "", err
	}

	var done, open []string
	for i, goal := range entry.Goals {
		if entry.done(i) {
			done = append(done, goal)
		} else {
			open = append(open, goal)
		}
	}

	body := []string{
		front,
		"# Morning Accountability",
		"",
		"## Goals",
		goalList(entry.Goals, entry.Completed),
		"",
		"## Evening Review 🌙",
		fmt.Sprintf("- Completion Rate: %d%%", meta.CompletionRate),
	}
	if len(done) > 0 {
		body = append(body, "- Completed:")
		for _, goal := range done {
			body = append(body, "  - ✅ "+goal)
		}
	}
	if len(open) > 0 {
		body = append(body, "- Not Completed:")
		for _, goal := range open {
			body = append(body, "  - ⚪️ "+goal)
		}
	}
	if reflections := strings.TrimSpace(entry.Reflections); reflections != "" {
		body = append(body, "", "### Reflections", reflections)
	}
	return strings.Join(body, "\n") + "\n", nil
}

func frontmatter(meta entryMetadata) (string, error) {
	out, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	return "---\n" + string(out) + "---", nil
}

func parseFrontmatter(content string) (entryMetadata, error) {
	var meta entryMetadata
	if !strings.HasPrefix(content, "---") {
		return meta, nil
	}
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 {
		return meta, nil
	}
	if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
		return meta, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	return meta, nil
}

func goalList(goals []string, completed []bool) string {
	if len(goals) == 0 {
		return "No goals recorded."
	}
	lines := make([]string, 0, len(goals))
	for i, goal := range goals {
		box := "[ ]"
		if i < len(completed) && completed[i] {
			box = "[x]"
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, box, goal))
	}
	return strings.Join(lines, "\n")
}

// linkDailyNote embeds the day's entry in the daily note, creating the note
// or an "## Accountability" section as needed.
func (v *Vault) linkDailyNote(t time.Time) error {
	path := v.DailyNotePath(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create daily notes dir: %w", err)
	}
	embed := fmt.Sprintf("![[%s-accountability]]", t.Format(dateLayout))

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		content := strings.Join([]string{
			"# " + t.Format("Monday, January 02, 2006"),
			"",
			"## Accountability",
			embed,
			"",
		}, "\n")
		return writeNote(path, content)
	}
	if err != nil {
		return fmt.Errorf("failed to read daily note: %w", err)
	}

	content := string(data)
	if strings.Contains(content, embed) {
		return nil
	}

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for i, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), "## accountability") {
			updated := append([]string{}, lines[:i+1]...)
			updated = append(updated, "", embed)
			updated = append(updated, lines[i+1:]...)
			return writeNote(path, strings.Join(updated, "\n")+"\n")
		}
	}

	lines = append(lines, "", "## Accountability", embed)
	return writeNote(path, strings.Join(lines, "\n")+"\n")
}

func writeNote(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write daily note: %w", err)
	}
	return nil
}
