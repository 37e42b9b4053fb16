package internal

import "os"

// localeFromEnv returns the locale that governs monetary formatting according
// to POSIX precedence: LC_ALL overrides LC_MONETARY, which overrides LANG.
// "C" and "POSIX" carry no region and are skipped.
func localeFromEnv() string {
	for _, envVar := range []string{"LC_ALL", "LC_MONETARY", "LANG"} {
		locale := os.Getenv(envVar)
		if locale != "" && locale != "C" && locale != "POSIX" {
			return locale
		}
	}
	return ""
}
