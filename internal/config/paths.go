package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands environment variables and a leading ~ in p.
// It supports ~/ or ~\ prefixes and %VAR% expansion on Windows.
func expandPath(p, home string, getenv func(string) string) string {
	if p == "" {
		return p
	}

	expanded := expandEnv(p, getenv)
	if home == "" {
		return expanded
	}
	if expanded == "~" {
		return home
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

func expandEnv(p string, getenv func(string) string) string {
	expanded := os.Expand(p, getenv)
	if runtime.GOOS != "windows" {
		return expanded
	}
	return expandWindowsEnv(expanded, getenv)
}

func expandWindowsEnv(p string, getenv func(string) string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] == '%' {
			end := strings.IndexByte(p[i+1:], '%')
			if end >= 0 {
				key := p[i+1 : i+1+end]
				if key == "" {
					b.WriteByte('%')
					i++
					continue
				}
				if val := getenv(key); val != "" {
					b.WriteString(val)
				} else {
					b.WriteByte('%')
					b.WriteString(key)
					b.WriteByte('%')
				}
				i += end + 2
				continue
			}
		}
		b.WriteByte(p[i])
		i++
	}
	return b.String()
}
