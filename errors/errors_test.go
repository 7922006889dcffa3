package errors

import (
	"fmt"
	"os"
	"testing"
)

func TestSyncError(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad input")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected code %s, got %s", ErrCodeInvalidInput, err.Code)
	}

	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeIO, "write failed")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodeIO) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeToolFailed) {
		t.Error("Is should return false for non-matching code")
	}

	detailed := err.WithDetail("field", "github_repo").WithDetail("count", 2)
	if detailed.Details["field"] != "github_repo" {
		t.Error("WithDetail should add details")
	}
	if detailed.Detail("count") != "2" {
		t.Errorf("Detail should stringify values, got %q", detailed.Detail("count"))
	}
	if detailed.Detail("missing") != "" {
		t.Error("Detail should return empty string for absent keys")
	}
}

func TestIsThroughFmtWrap(t *testing.T) {
	inner := MissingConfig("/tmp/config.json")
	outer := fmt.Errorf("sync: %w", inner)

	if !Is(outer, ErrCodeMissingConfig) {
		t.Error("Is should see through fmt.Errorf wrapping")
	}
	if GetCode(outer) != ErrCodeMissingConfig {
		t.Errorf("GetCode = %s, want %s", GetCode(outer), ErrCodeMissingConfig)
	}

	syncErr, ok := As(outer)
	if !ok || syncErr != inner {
		t.Error("As should return the wrapped SyncError")
	}

	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("As should fail for errors without a SyncError")
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := ToolFailed("git", []string{"push", "origin", "main"}, 128, "fatal: no remote\n")
	if err.Code != ErrCodeToolFailed {
		t.Errorf("expected code %s, got %s", ErrCodeToolFailed, err.Code)
	}
	if err.Details["exitCode"] != 128 {
		t.Error("ToolFailed should include exit code detail")
	}
	if err.Detail("stderr") != "fatal: no remote" {
		t.Errorf("stderr detail should be trimmed, got %q", err.Detail("stderr"))
	}
	if err.Message != "git push origin main exited with status 128: fatal: no remote" {
		t.Errorf("unexpected message: %s", err.Message)
	}

	err = DirectoryUnavailable("/nope", os.ErrNotExist)
	if err.Code != ErrCodeDirectoryUnavailable {
		t.Errorf("expected code %s, got %s", ErrCodeDirectoryUnavailable, err.Code)
	}
	if err.Details["path"] != "/nope" {
		t.Error("DirectoryUnavailable should include path detail")
	}

	err = SpawnFailed("git", fmt.Errorf("executable file not found in $PATH"))
	if !Is(err, ErrCodeSpawnFailed) {
		t.Error("SpawnFailed should carry PROCESS_SPAWN_FAILURE")
	}
}
