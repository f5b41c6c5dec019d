//go:build !unix

package bootstrap

import (
	"fmt"
	"os"
)

// checkWritable probes by creating and removing a temporary file, since
// there is no access(2) outside unix.
func checkWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		return f.Close()
	}

	f, err := os.CreateTemp(path, ".turtle-write-check-*")
	if err != nil {
		return fmt.Errorf("create probe file: %w", err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
