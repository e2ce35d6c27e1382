package common

import (
	"runtime"
	"sync"

	"github.com/devlights/gomy/output"
)

func SH_Assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}

// RuntimeStack dumps every goroutine's stack via output.Stdoutl. The
// deadlock detector calls this right before it aborts a cycle's victim
// transaction, so the wait state that produced the cycle is visible in
// the dump.
//
// REFERENCES
//   - https://pkg.go.dev/runtime#Stack
func RuntimeStack(prefix string) {
	buf := make([]byte, 1024)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			output.Stdoutl(prefix, string(buf[:n]))
			return
		}
		buf = make([]byte, 2*len(buf))
	}
}

type SH_Mutex struct {
	mutex    *sync.Mutex
	isLocked bool
}

func NewSH_Mutex() *SH_Mutex {
	return &SH_Mutex{new(sync.Mutex), false}
}
func (m *SH_Mutex) Lock() {
	SH_Assert(!m.isLocked, "Mutex is already locked")
	m.mutex.Lock()
	m.isLocked = true
}

func (m *SH_Mutex) Unlock() {
	SH_Assert(m.isLocked, "Mutex is not locked")
	m.mutex.Unlock()
	m.isLocked = false
}
