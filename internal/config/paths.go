package config

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// appDir is the folder created under the user config directory. Each profile
// gets its own subfolder holding config.yaml, client.log and the last
// username typed on the login screen.
const appDir = "Dodgescape"

const usernameFile = "username.txt"

var profileJunk = regexp.MustCompile(`[^a-z0-9._-]`)

// profileSlug turns a free-form name into something safe for a folder.
func profileSlug(name string) string {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if name = profileJunk.ReplaceAllString(name, ""); name == "" {
		return "default"
	}
	return name
}

// ProfileName is the folder under appDir for this run. DODGE_PROFILE wins;
// otherwise two client builds started from different paths keep apart by
// the executable name plus a short hash of its location.
func ProfileName() string {
	if p := os.Getenv(EnvPrefix + "_PROFILE"); strings.TrimSpace(p) != "" {
		return profileSlug(p)
	}
	exe, err := os.Executable()
	if err != nil {
		return "default"
	}
	h := fnv.New32a()
	h.Write([]byte(exe))
	name := strings.TrimSuffix(filepath.Base(exe), filepath.Ext(exe))
	return fmt.Sprintf("%s-%08x", profileSlug(name), h.Sum32())
}

func userRoot() string {
	if root, err := os.UserConfigDir(); err == nil && root != "" {
		return root
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// ConfigDir returns the profile folder, creating it on first use.
func ConfigDir() string {
	dir := filepath.Join(userRoot(), appDir, ProfileName())
	_ = os.MkdirAll(dir, 0o755)
	return dir
}

func ConfigPath(name string) string { return filepath.Join(ConfigDir(), name) }

// SaveUsername remembers the name for the next login screen.
func SaveUsername(u string) error {
	return os.WriteFile(ConfigPath(usernameFile), []byte(strings.TrimSpace(u)), 0o600)
}

// LoadUsername returns the remembered name, or "" for a fresh profile.
func LoadUsername() string {
	b, _ := os.ReadFile(ConfigPath(usernameFile))
	return strings.TrimSpace(string(b))
}
