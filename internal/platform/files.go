package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// Operating system constants
const (
	OSDarwin = "darwin"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// VideoExtensions lists the file extensions treated as playable video
var VideoExtensions = []string{".mp4", ".mkv", ".webm", ".mov", ".avi", ".m4v", ".mpg", ".mpeg", ".wmv", ".flv", ".ts"}

// Remote source schemes
var remoteSchemes = []string{"http://", "https://", "rtsp://", "rtmp://"}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// IsVideoFile reports whether path has a known video extension
func IsVideoFile(path string) bool {
	return slices.Contains(VideoExtensions, strings.ToLower(filepath.Ext(path)))
}

// IsRemoteSource reports whether source is a network URL rather than a path
func IsRemoteSource(source string) bool {
	lower := strings.ToLower(strings.TrimSpace(source))
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// DisplayName returns a short label for a source: the file name for local
// paths, the URL unchanged otherwise.
func DisplayName(source string) string {
	if source == "" || IsRemoteSource(source) {
		return source
	}
	return filepath.Base(source)
}

// ValidateLocalSource checks that a local source exists and is a file
func ValidateLocalSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("not a file: %s", path)
	}
	return nil
}

// GetHomeVideosDir returns the user's videos directory, used as the starting
// point of the open dialog.
func GetHomeVideosDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	name := "Videos"
	if runtime.GOOS == OSDarwin {
		name = "Movies"
	}
	return filepath.Join(homeDir, name), nil
}

// SocketPath returns a unix socket path in the temp dir for an IPC endpoint
func SocketPath(name string) string {
	return filepath.Join(os.TempDir(), name+".sock")
}
