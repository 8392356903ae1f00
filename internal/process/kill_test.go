package process

// Notes:
// - Cannot test with PID 0 (kills current process group).
// - Real group termination is covered on Unix in kill_unix_test.go, where a
//   child is started in its own group first.

import "testing"

// ---------------------------------------------------------------------------
// TestKillProcessGroup - Invalid PID Handling
// ---------------------------------------------------------------------------

func TestKillProcessGroup_InvalidPID(t *testing.T) {
	t.Parallel()

	// Verify function handles non-existent PID without panicking.
	//
	// Note: Cannot safely test with:
	// - PID 0: syscall.Kill(-0, SIGKILL) kills the current process group
	// - Negative PIDs: syscall.Kill(positive, SIGKILL) would target real processes
	KillProcessGroup(999999999)
}
