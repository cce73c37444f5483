package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// osName is read instead of runtime.GOOS directly so tests can cover the
// per-platform branches.
var osName = runtime.GOOS

// OpenBrowser shows url in the default browser. The OAuth flow uses it to
// present the consent page; a failure there is recoverable, the user can
// open the printed URL by hand.
func OpenBrowser(url string) error {
	name, args := browserCommand(url)
	if name == "" {
		return fmt.Errorf("no known browser opener for %s", osName)
	}
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

func browserCommand(url string) (string, []string) {
	switch osName {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "cmd", []string{"/c", "start", url}
	case "linux":
		return "xdg-open", []string{url}
	}
	return "", nil
}
