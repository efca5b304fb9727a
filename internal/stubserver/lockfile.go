package stubserver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrNotRunning means no live stub backend was found.
var ErrNotRunning = errors.New("stub backend is not running")

// WriteLockfile records "port|pid" for the current process in dir.
func WriteLockfile(dir string, port int) (string, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("failed to create lockfile directory: %w", err)
	}
	path := filepath.Join(dir, constants.StubLockfileName)
	content := fmt.Sprintf("%d|%d", port, getpidFunc())
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write lockfile: %w", err)
	}
	return path, nil
}

// RemoveLockfile deletes the lockfile, ignoring a missing file.
func RemoveLockfile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Discover returns the base address of the stub backend that wrote the
// lockfile in dir, after checking its process is still alive.
func Discover(dir string) (string, error) {
	port, err := findAndValidateStubProcess(filepath.Join(dir, constants.StubLockfileName))
	if err != nil {
		return "", err
	}
	return "http://127.0.0.1:" + port, nil
}

func findAndValidateStubProcess(lockfilePath string) (string, error) {
	content, err := os.ReadFile(lockfilePath)
	if err != nil {
		return "", ErrNotRunning
	}

	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 2 {
		return "", errors.New("lockfile is malformed")
	}

	port := strings.TrimSpace(parts[0])
	if port == "" {
		return "", errors.New("port in lockfile is empty")
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return "", errors.New("invalid port number in lockfile")
	}
	if portNum < 1 || portNum > 65535 {
		return "", fmt.Errorf("port number %d is outside valid range (1-65535)", portNum)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", errors.New("invalid process ID in lockfile")
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return "", ErrNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.StubExecutable) {
		return "", fmt.Errorf("process with PID %d is not %s (is %s)", pid, constants.StubExecutable, process.Executable())
	}

	return port, nil
}
