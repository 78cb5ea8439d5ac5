package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewSyncer(t *testing.T) {
	complete := Settings{Enabled: true, RepoURL: "https://github.com/me/vault.git", Token: "tok"}

	assert.Nil(t, NewSyncer("", Settings{RepoURL: complete.RepoURL, Token: complete.Token}, nil), "disabled")
	assert.Nil(t, NewSyncer("", Settings{Enabled: true, Token: "tok"}, nil), "missing url")
	assert.Nil(t, NewSyncer("", Settings{Enabled: true, RepoURL: complete.RepoURL}, nil), "missing token")

	assert.IsType(t, &MockSyncer{}, NewSyncer(ModeMock, complete, zap.NewNop()))

	syncer := NewSyncer("", complete, zap.NewNop())
	git, ok := syncer.(*GitSyncer)
	if assert.True(t, ok) {
		assert.Equal(t, complete.RepoURL, git.repoURL)
	}
}
