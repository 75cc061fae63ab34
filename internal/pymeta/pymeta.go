// Package pymeta reads Python packaging metadata out of a working tree.
package pymeta

import (
	"log/slog"
	"os/exec"
	"strings"
)

const (
	versionPrefix = "Programming Language :: Python :: "
	implPrefix    = "Programming Language :: Python :: Implementation :: "
)

// Classifiers returns the trove classifiers a project declares.
type Classifiers interface {
	Classifiers(path string) []string
}

// SetupPy shells out to `python3 setup.py --classifiers`.
type SetupPy struct {
	log *slog.Logger
}

func NewSetupPy(logger *slog.Logger) *SetupPy {
	if logger == nil {
		logger = slog.Default()
	}
	return &SetupPy{log: logger}
}

func (s *SetupPy) Classifiers(path string) []string {
	s.log.Debug("EXEC cd " + path + " && python3 setup.py --classifiers")
	cmd := exec.Command("python3", "setup.py", "--classifiers")
	cmd.Dir = path
	out, err := cmd.Output()
	if err != nil {
		return nil
	}
	var classifiers []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			classifiers = append(classifiers, line)
		}
	}
	return classifiers
}

// SupportedVersions extracts the declared interpreter versions plus any
// non-CPython implementation names from a classifier list.
func SupportedVersions(classifiers []string) []string {
	var versions []string
	for _, c := range classifiers {
		if !strings.HasPrefix(c, versionPrefix) || strings.HasPrefix(c, implPrefix) {
			continue
		}
		v := strings.TrimPrefix(c, versionPrefix)
		if v != "" && v[0] >= '0' && v[0] <= '9' {
			versions = append(versions, v)
		}
	}
	for _, c := range classifiers {
		if strings.HasPrefix(c, implPrefix) {
			impl := strings.TrimPrefix(c, implPrefix)
			if impl != "CPython" {
				versions = append(versions, impl)
			}
		}
	}
	return versions
}
