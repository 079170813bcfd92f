package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ps "github.com/mitchellh/go-ps"
)

// PidFile keeps two copies of the same long-running service, such as
// the profile importer, from running at once.
type PidFile struct {
	Path string
}

// NewPidFile returns a PidFile at path.
func NewPidFile(path string) *PidFile {
	return &PidFile{Path: path}
}

// Claim writes our pid to the file, unless the file belongs to
// another process that is still running.
func (p *PidFile) Claim() error {
	if p.HeldByOtherProcess() {
		return fmt.Errorf("Process %d already holds pid file %s", p.Pid(), p.Path)
	}
	return os.WriteFile(p.Path, []byte(strconv.Itoa(os.Getpid())), 0664)
}

// Release deletes the pid file if we hold it.
func (p *PidFile) Release() error {
	if p.Pid() != os.Getpid() {
		return nil
	}
	if !LooksSafeToDelete(p.Path, 12, 2) {
		return fmt.Errorf("Pid file %s does not look safe to delete", p.Path)
	}
	return os.Remove(p.Path)
}

// Pid returns the pid in the file, or zero if the file is missing
// or unreadable.
func (p *PidFile) Pid() int {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// HeldByOtherProcess returns true if the file names a running
// process other than this one. Stale files left by a crash don't
// count.
func (p *PidFile) HeldByOtherProcess() bool {
	pid := p.Pid()
	return pid != 0 && pid != os.Getpid() && ProcessIsRunning(pid)
}

// Age returns the time since the pid file was last written.
func (p *PidFile) Age() (time.Duration, error) {
	fileStat, err := os.Stat(p.Path)
	if err != nil {
		return 0, err
	}
	return time.Since(fileStat.ModTime()), nil
}

// ProcessIsRunning returns true if the process with pid is running.
// This uses go-ps internally because golang's os.FindProcess always
// returns a process on *nix, even when no process with that pid is
// running.
func ProcessIsRunning(pid int) bool {
	proc, _ := ps.FindProcess(pid)
	return proc != nil
}
