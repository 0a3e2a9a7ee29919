// Package export turns memo markup into plain text and sends it to files,
// the clipboard or the platform opener.
package export

import (
	"errors"
	"fmt"
	"html"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	strip "github.com/grokify/html-strip-tags-go"
)

var lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)

// ErrUnsupportedLink is returned by OpenLink for schemes it will not open.
var ErrUnsupportedLink = errors.New("unsupported link")

// PlainText converts memo markup to text. Line breaks become newlines and
// entities are decoded.
func PlainText(markup string) string {
	text := lineBreak.ReplaceAllString(markup, "\n")
	text = strip.StripTags(text)
	return html.UnescapeString(text)
}

// FileName returns the download name for a tab on a given day.
func FileName(tabID int, now time.Time) string {
	return fmt.Sprintf("memopad-memo-%d-%s.txt", tabID, now.Format("2006-01-02"))
}

// Download writes the memo as text into dir and returns the file path.
func Download(dir string, tabID int, markup string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName(tabID, now))
	if err := os.WriteFile(path, []byte(PlainText(markup)), 0644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// CopyToClipboard puts text on the system clipboard.
func CopyToClipboard(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// startCommand launches the opener without waiting for it.
var startCommand = func(cmd *exec.Cmd) error { return cmd.Start() }

// OpenLink opens href with the platform opener. Only the schemes the
// linkifier produces are accepted.
func OpenLink(href string) error {
	u, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsupportedLink, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ftp", "mailto":
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedLink, href)
	}

	cmd := openerCommand(runtime.GOOS, href)
	if cmd == nil {
		return fmt.Errorf("no opener for %s", runtime.GOOS)
	}
	if err := startCommand(cmd); err != nil {
		return fmt.Errorf("open link: %w", err)
	}
	return nil
}

func openerCommand(goos, target string) *exec.Cmd {
	switch goos {
	case "darwin":
		return exec.Command("open", target)
	case "windows":
		return exec.Command("cmd", "/c", "start", target)
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", target)
	}
	return nil
}
