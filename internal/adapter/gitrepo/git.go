package gitrepo

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Client commits and pushes saved quiz documents with the system git
// binary. The working directory must already be a configured clone.
type Client struct {
	workDir string
	remote  string
	branch  string
	logger  *zap.Logger
}

// NewClient creates a git export client rooted at workDir.
func NewClient(workDir, remote, branch string, logger *zap.Logger) *Client {
	return &Client{
		workDir: workDir,
		remote:  remote,
		branch:  branch,
		logger:  logger,
	}
}

// CommitAndPush stages path, commits it with message, and pushes the
// configured branch. An empty commit (the file was already committed)
// is not an error; the push still runs.
func (c *Client) CommitAndPush(ctx context.Context, path, message string) error {
	if out, err := c.run(ctx, "add", path); err != nil {
		return fmt.Errorf("git add failed: %s: %w", out, err)
	}

	if out, err := c.run(ctx, "commit", "-m", message); err != nil {
		if !strings.Contains(out, "nothing to commit") {
			return fmt.Errorf("git commit failed: %s: %w", out, err)
		}
		c.logger.Info("nothing to commit, pushing anyway")
	}

	if out, err := c.run(ctx, "push", c.remote, c.branch); err != nil {
		return fmt.Errorf("git push failed: %s: %w", out, err)
	}

	c.logger.Info("pushed quiz document",
		zap.String("path", path),
		zap.String("remote", c.remote),
		zap.String("branch", c.branch),
	)
	return nil
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.workDir
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}
