//go:build windows

package internal

import (
	"syscall"
	"unsafe"
)

// skipSystemLocale can be set to true in tests to skip the Windows API lookup
var skipSystemLocale = false

var (
	kernel32                 = syscall.NewLazyDLL("kernel32.dll")
	procGetUserDefaultLocale = kernel32.NewProc("GetUserDefaultLocaleName")
)

// detectSystemLocale checks the environment first (WSL, tests) and falls back
// to GetUserDefaultLocaleName. Returns "" if detection fails.
func detectSystemLocale() string {
	if locale := localeFromEnv(); locale != "" {
		return locale
	}
	if skipSystemLocale {
		return ""
	}

	const maxLen = 85 // LOCALE_NAME_MAX_LENGTH

	buf := make([]uint16, maxLen)
	ret, _, _ := procGetUserDefaultLocale.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(maxLen),
	)
	if ret == 0 {
		return ""
	}
	return syscall.UTF16ToString(buf)
}
