package notes

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// GitSyncer syncs a vault kept in a git repository. Every sync clones the
// repository into a temporary directory, writes the entry, commits and
// pushes, then removes the clone.
type GitSyncer struct {
	repoURL   string
	token     string
	userName  string
	userEmail string
	logger    *zap.Logger
}

// NewGitSyncer creates a git-backed syncer. token is injected into https
// repository URLs for authentication.
func NewGitSyncer(repoURL, token, userName, userEmail string, logger *zap.Logger) *GitSyncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GitSyncer{
		repoURL:   repoURL,
		token:     token,
		userName:  userName,
		userEmail: userEmail,
		logger:    logger,
	}
}

// SyncMorning writes the morning entry and pushes it.
func (s *GitSyncer) SyncMorning(ctx context.Context, entry MorningEntry) error {
	return s.withClone(ctx, func(vault *Vault, dir string) error {
		if _, err := vault.WriteMorning(entry); err != nil {
			return err
		}
		message := fmt.Sprintf("Morning accountability check-in - %s", entry.CallTime.Format(dateLayout))
		return s.commitAndPush(ctx, dir, message)
	})
}

// SyncEvening writes the evening review and pushes it. A day without a
// morning entry is skipped.
func (s *GitSyncer) SyncEvening(ctx context.Context, entry EveningEntry) error {
	return s.withClone(ctx, func(vault *Vault, dir string) error {
		written, err := vault.WriteEvening(entry)
		if err != nil {
			return err
		}
		if written == "" {
			s.logger.Info("no morning entry to review, skipping vault update",
				zap.String("date", entry.CallTime.Format(dateLayout)))
			return nil
		}
		message := fmt.Sprintf("Evening accountability review - %s (%d%% complete)",
			entry.CallTime.Format(dateLayout), entry.CompletionRate())
		return s.commitAndPush(ctx, dir, message)
	})
}

func (s *GitSyncer) withClone(ctx context.Context, fn func(vault *Vault, dir string) error) error {
	tmp, err := os.MkdirTemp("", "obsidian_vault_")
	if err != nil {
		return fmt.Errorf("failed to create clone dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	dir := filepath.Join(tmp, repoName(s.repoURL))
	if _, err := s.git(ctx, tmp, "clone", authenticatedURL(s.repoURL, s.token), dir); err != nil {
		return err
	}
	if _, err := s.git(ctx, dir, "config", "user.name", s.userName); err != nil {
		return err
	}
	if _, err := s.git(ctx, dir, "config", "user.email", s.userEmail); err != nil {
		return err
	}

	return fn(NewVault(dir), dir)
}

func (s *GitSyncer) commitAndPush(ctx context.Context, dir, message string) error {
	status, err := s.git(ctx, dir, "status", "--porcelain")
	if err != nil {
		return err
	}
	if strings.TrimSpace(status) == "" {
		s.logger.Info("vault unchanged, skipping commit")
		return nil
	}

	for _, args := range [][]string{
		{"add", "."},
		{"commit", "-m", message},
		{"push", "origin", "HEAD"},
	} {
		if _, err := s.git(ctx, dir, args...); err != nil {
			return err
		}
	}
	s.logger.Info("vault updated", zap.String("commit", message))
	return nil
}

// git runs a git command in dir. The token never appears in returned errors.
func (s *GitSyncer) git(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	s.logger.Debug("running git", zap.String("args", s.redact(strings.Join(args, " "))))
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w: %s", args[0], err, s.redact(strings.TrimSpace(stderr.String())))
	}
	return stdout.String(), nil
}

func (s *GitSyncer) redact(text string) string {
	if s.token == "" {
		return text
	}
	return strings.ReplaceAll(text, s.token, "***")
}

// authenticatedURL injects token into an https repository URL. Local paths
// and URLs with other schemes are returned unchanged.
func authenticatedURL(repoURL, token string) string {
	switch {
	case token == "" || strings.Contains(repoURL, token):
		return repoURL
	case strings.HasPrefix(repoURL, "https://"):
		return "https://" + token + "@" + strings.TrimPrefix(repoURL, "https://")
	case strings.Contains(repoURL, "://"), strings.HasPrefix(repoURL, "/"), strings.HasPrefix(repoURL, "."):
		return repoURL
	default:
		return "https://" + token + "@" + repoURL
	}
}

// repoName derives the clone directory name from a repository URL.
func repoName(repoURL string) string {
	name := path.Base(strings.TrimRight(repoURL, "/"))
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "." || name == "/" {
		return "vault"
	}
	return name
}
