//go:build darwin

package internal

import (
	"os/exec"
	"strings"
)

// skipSystemLocale can be set to true in tests to skip the AppleLocale lookup
var skipSystemLocale = false

// detectSystemLocale prefers the environment (terminal overrides) and falls
// back to the AppleLocale preference, which is already in "sv_SE" form.
func detectSystemLocale() string {
	if locale := localeFromEnv(); locale != "" {
		return locale
	}
	if skipSystemLocale {
		return ""
	}

	out, err := exec.Command("defaults", "read", "-g", "AppleLocale").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
