package util

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/tychoish/fun/adt"
)

var (
	hostNameCache = &adt.Once[string]{}
	homeDirCache  = &adt.Once[string]{}
)

// GetHostname returns the local host name, computed once per process.
func GetHostname() string {
	return hostNameCache.Do(func() string {
		name, err := os.Hostname()
		if err != nil {
			return "UNKNOWN_HOSTNAME"
		}
		return name
	})
}

// GetHomedir returns the current user's home directory, computed once
// per process.
func GetHomedir() string {
	return homeDirCache.Do(func() string {
		if dir, err := os.UserHomeDir(); err == nil && dir != "" {
			return dir
		}
		if runtime.GOOS == "windows" {
			return ""
		}

		out, err := exec.Command("sh", "-c", "cd && pwd").Output()
		out = bytes.TrimSpace(out)
		if err != nil || len(out) == 0 {
			return ""
		}
		return string(out)
	})
}

// TryExpandHomedir replaces a leading "~" or "~/" with the home
// directory. Other values, including "~user" forms, are returned
// unchanged.
func TryExpandHomedir(in string) string {
	if len(in) == 0 || in[0] != '~' {
		return in
	}

	if len(in) > 1 && in[1] != '/' && in[1] != '\\' {
		return in
	}

	home := GetHomedir()
	if home == "" {
		return in
	}
	return filepath.Join(home, in[1:])
}
