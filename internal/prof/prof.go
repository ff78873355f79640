// Package prof wraps the runtime profilers behind one start/stop pair.
package prof

import (
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Session owns the files of the active profilers. Stop is safe to call on a
// nil session, so callers can defer it unconditionally.
type Session struct {
	cpu     *os.File
	trace   *os.File
	memPath string
}

// Start begins the requested profilers. Empty paths disable the
// corresponding profiler; all empty yields a nil session.
func Start(cpuPath, memPath, tracePath string) (*Session, error) {
	if cpuPath == "" && memPath == "" && tracePath == "" {
		return nil, nil
	}
	s := &Session{memPath: memPath}

	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		s.cpu = f
	}

	if tracePath != "" {
		f, err := os.Create(tracePath)
		if err != nil {
			s.Stop()
			return nil, err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.Stop()
			return nil, err
		}
		s.trace = f
	}

	return s, nil
}

// Stop ends the active profilers and writes the heap profile, if requested.
func (s *Session) Stop() {
	if s == nil {
		return
	}
	if s.cpu != nil {
		pprof.StopCPUProfile()
		_ = s.cpu.Close()
		s.cpu = nil
	}
	if s.trace != nil {
		trace.Stop()
		_ = s.trace.Close()
		s.trace = nil
	}
	if s.memPath != "" {
		writeMem(s.memPath)
		s.memPath = ""
	}
}

func writeMem(path string) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(f)
}
