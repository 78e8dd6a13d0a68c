// Package pass keeps the session credential in the user's pass(1) store.
package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
)

const binary = "pass"

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

type Store struct {
	run runFunc
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{run: execPass}
}

// Available reports whether the pass binary is on PATH.
func Available() bool {
	_, err := exec.LookPath(binary)
	return err == nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	_, err := s.exec(ctx, "put", key, value+"\n", "insert", "--multiline", "--force", key)
	return err
}

// Get returns the first line of the entry; pass entries may carry extra
// metadata lines below the secret.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	out, err := s.exec(ctx, "get", key, "", "show", key)
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimRight(line, "\r"), nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.exec(ctx, "delete", key, "", "rm", "--force", key)
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil
	}
	return err
}

func (s *Store) exec(ctx context.Context, op, key, input string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, input, args...)
	switch {
	case err == nil:
		return stdout, nil
	case strings.Contains(stderr, "is not in the password store"):
		return "", fmt.Errorf("pass %s %q: %w", op, key, domain.ErrSecretNotFound)
	case stderr != "":
		return "", fmt.Errorf("pass %s %q: %w: %s", op, key, err, stderr)
	default:
		return "", fmt.Errorf("pass %s %q: %w", op, key, err)
	}
}

func execPass(ctx context.Context, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath(binary)
	if errors.Is(err, exec.ErrNotFound) {
		return "", "", ErrUnavailable
	}
	if err != nil {
		return "", "", fmt.Errorf("locate pass: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}
