//go:build !windows && !darwin

package internal

// skipSystemLocale matches the darwin and windows builds so tests can set it
// on every OS. The environment is the only locale source here.
var skipSystemLocale = false

func detectSystemLocale() string {
	return localeFromEnv()
}
