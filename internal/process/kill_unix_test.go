//go:build !windows

package process

import (
	"os/exec"
	"testing"
	"time"
)

func TestKillProcessGroup_KillsChildTree(t *testing.T) {
	t.Parallel()

	// The shell spawns a grandchild; both share the new group.
	cmd := exec.Command("sh", "-c", "sleep 30 & wait")
	SetProcessGroup(cmd)
	if err := cmd.Start(); err != nil {
		t.Skipf("cannot start sh: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	KillProcessGroup(cmd.Process.Pid)

	select {
	case err := <-done:
		if err == nil {
			t.Error("Wait() error = nil, want killed process")
		}
	case <-time.After(10 * time.Second):
		_ = cmd.Process.Kill()
		t.Fatal("process group still running after KillProcessGroup")
	}
}

func TestSetProcessGroup_PreservesExistingAttr(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	SetProcessGroup(cmd)
	SetProcessGroup(cmd)
	if cmd.SysProcAttr == nil || !cmd.SysProcAttr.Setpgid {
		t.Error("SysProcAttr.Setpgid = false, want true")
	}
}
