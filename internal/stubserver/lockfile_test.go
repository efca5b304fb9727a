package stubserver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int {
	return m.pid
}

func (m *mockProcess) PPid() int {
	return 0
}

func (m *mockProcess) Executable() string {
	return m.executable
}

func TestFindAndValidateStubProcess(t *testing.T) {
	oldFindProcessFunc := findProcessFunc
	defer func() { findProcessFunc = oldFindProcessFunc }()

	tempDir := t.TempDir()
	lockfilePath := filepath.Join(tempDir, constants.StubLockfileName)

	// Lockfile missing
	if _, err := findAndValidateStubProcess(lockfilePath); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning for missing lockfile, got %v", err)
	}

	malformed := map[string]string{
		"three parts":  "8080|12345|secret",
		"invalid":      "invalid",
		"empty port":   "|12345",
		"port range":   "99999|12345",
		"port not int": "abc|12345",
		"pid not int":  "8080|abc",
	}
	for name, content := range malformed {
		if err := os.WriteFile(lockfilePath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := findAndValidateStubProcess(lockfilePath); err == nil {
			t.Errorf("%s: expected error for %q", name, content)
		}
	}

	if err := os.WriteFile(lockfilePath, []byte("8080|12345\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// Process not running
	findProcessFunc = func(pid int) (ps.Process, error) {
		return nil, nil
	}
	if _, err := findAndValidateStubProcess(lockfilePath); !errors.Is(err, ErrNotRunning) {
		t.Errorf("expected ErrNotRunning for missing process, got %v", err)
	}

	// Wrong executable
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, err := findAndValidateStubProcess(lockfilePath); err == nil {
		t.Error("expected error for wrong executable")
	}

	// Success
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "shiftdesk"}, nil
	}
	port, err := findAndValidateStubProcess(lockfilePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" {
		t.Errorf("expected port 8080, got %s", port)
	}
}

func TestWriteLockfileAndDiscover(t *testing.T) {
	oldFindProcessFunc, oldGetpid := findProcessFunc, getpidFunc
	defer func() { findProcessFunc, getpidFunc = oldFindProcessFunc, oldGetpid }()

	getpidFunc = func() int { return 4242 }
	findProcessFunc = func(pid int) (ps.Process, error) {
		if pid != 4242 {
			t.Errorf("looked up pid %d, want 4242", pid)
		}
		return &mockProcess{pid: pid, executable: "shiftdesk.exe"}, nil
	}

	dir := filepath.Join(t.TempDir(), "nested")
	path, err := WriteLockfile(dir, 5173)
	if err != nil {
		t.Fatalf("WriteLockfile() error = %v", err)
	}

	base, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover() error = %v", err)
	}
	if base != "http://127.0.0.1:5173" {
		t.Errorf("Discover() = %q", base)
	}

	if err := RemoveLockfile(path); err != nil {
		t.Fatalf("RemoveLockfile() error = %v", err)
	}
	if err := RemoveLockfile(path); err != nil {
		t.Errorf("second RemoveLockfile() error = %v", err)
	}
	if _, err := Discover(dir); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Discover() after removal error = %v", err)
	}
}
