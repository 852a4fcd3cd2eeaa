package segment

import (
	"os"
	"path/filepath"
	"strings"
)

const maxNameLen = 200

// NodeObjectName and PayloadObjectName are the logical in-segment object
// names exposed for diagnostics: the Node is named by suffixing the
// address with "/shmgr", the payload slot with "/shobj". Layout itself is
// fixed-offset (see doc.go), so these names are carried only for
// diagnostics and error messages, not used to address memory.
func NodeObjectName(address string) string    { return address + "/shmgr" }
func PayloadObjectName(address string) string { return address + "/shobj" }

// baseDir returns the directory backing shared segments: /dev/shm when it
// exists (tmpfs, the conventional POSIX shared-memory mount point),
// falling back to the OS temp directory otherwise.
func baseDir() string {
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		return "/dev/shm"
	}
	return os.TempDir()
}

// pathFor mangles an address into a filesystem path under baseDir.
// Addresses are filesystem-legal strings but may contain "/" to namespace
// streams; those slashes are flattened so the backing file lives directly
// in baseDir rather than requiring intermediate directories.
func pathFor(address string) (string, error) {
	mangled := "oatshm." + strings.ReplaceAll(filepath.Clean(address), "/", "_")
	if len(mangled) > maxNameLen {
		return "", ErrNameTooLong
	}
	return filepath.Join(baseDir(), mangled), nil
}
