package csvlog

import "os"

// SetWrite replaces the append write call for failure tests.
func SetWrite(s *Store, fn func(f *os.File, b []byte) (int, error)) {
	s.write = fn
}
