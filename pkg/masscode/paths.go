package masscode

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"
)

var (
	// ErrPreferencesNotFound is returned when preferences.json does not exist.
	ErrPreferencesNotFound = errors.New("masscode: preferences.json not found")
	// ErrStoragePathMissing is returned when preferences.json names no storage path.
	ErrStoragePathMissing = errors.New("masscode: storagePath missing from preferences")
	// ErrDatabaseNotFound is returned when db.json does not exist.
	ErrDatabaseNotFound = errors.New("masscode: db.json not found")
)

const (
	preferencesFile = "preferences.json"
	databaseFile    = "db.json"
)

// DefaultAppDataPath returns the directory massCode keeps its settings in:
// %APPDATA%\massCode on Windows and $HOME/.massCode elsewhere.
func DefaultAppDataPath() string {
	return appDataPath(runtime.GOOS, os.Getenv)
}

func appDataPath(goos string, getenv func(string) string) string {
	if goos == "windows" {
		return filepath.Join(getenv("APPDATA"), "massCode")
	}
	home := getenv("HOME")
	if home == "" {
		home = "/home/"
	}
	return filepath.Join(home, ".massCode")
}

// PreferencesPath returns the location of preferences.json below appData.
func PreferencesPath(appData string) string {
	return filepath.Join(appData, "v2", preferencesFile)
}

// ResolveDatabasePath reads preferences.json below appData and returns the
// db.json inside its storagePath.
func ResolveDatabasePath(fsys afero.Fs, appData string) (string, error) {
	prefsPath := PreferencesPath(appData)
	data, err := afero.ReadFile(fsys, prefsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrPreferencesNotFound, prefsPath)
		}
		return "", fmt.Errorf("read preferences: %w", err)
	}

	var prefs map[string]any
	if err := json.Unmarshal(data, &prefs); err != nil {
		return "", fmt.Errorf("decode preferences %s: %w", prefsPath, err)
	}
	storage, _ := prefs["storagePath"].(string)
	if storage == "" {
		return "", fmt.Errorf("%w: %s", ErrStoragePathMissing, prefsPath)
	}
	return filepath.Join(storage, databaseFile), nil
}
