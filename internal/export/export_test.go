package export

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"a<br>b<BR/>c", "a\nb\nc"},
		{`see <a href="http://x.io" target="_blank">http://x.io</a> now`, "see http://x.io now"},
		{"a &amp; b &lt;c&gt;", "a & b <c>"},
		{"<b>bold</b>&nbsp;x", "bold\u00a0x"},
	}
	for _, tt := range tests {
		if got := PlainText(tt.in); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2024, 3, 7, 23, 59, 0, 0, time.UTC)
	if got := FileName(2, now); got != "memopad-memo-2-2024-03-07.txt" {
		t.Errorf("FileName(2) = %q", got)
	}
}

func TestDownload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	now := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	path, err := Download(dir, 1, "line one<br>line two", now)
	if err != nil {
		t.Fatalf("Download error: %v", err)
	}
	if want := filepath.Join(dir, "memopad-memo-1-2024-01-02.txt"); path != want {
		t.Errorf("Download path = %q, want %q", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "line one\nline two" {
		t.Errorf("file content = %q", data)
	}
}

func TestOpenLink(t *testing.T) {
	var started []*exec.Cmd
	orig := startCommand
	startCommand = func(cmd *exec.Cmd) error {
		started = append(started, cmd)
		return nil
	}
	defer func() { startCommand = orig }()

	for _, bad := range []string{"javascript:alert(1)", "file:///etc/passwd", "notaurl"} {
		if err := OpenLink(bad); !errors.Is(err, ErrUnsupportedLink) {
			t.Errorf("OpenLink(%q) error = %v, want ErrUnsupportedLink", bad, err)
		}
	}
	if len(started) != 0 {
		t.Fatalf("opener started for rejected links: %d", len(started))
	}

	if openerCommand("plan9", "x") != nil {
		t.Error("openerCommand on unknown OS should be nil")
	}
	openers := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"open", "http://x.io"}},
		{"windows", []string{"cmd", "/c", "start", "http://x.io"}},
		{"linux", []string{"xdg-open", "http://x.io"}},
	}
	for _, o := range openers {
		cmd := openerCommand(o.goos, "http://x.io")
		if cmd == nil {
			t.Errorf("openerCommand(%q) = nil", o.goos)
			continue
		}
		if diff := cmp.Diff(o.want, cmd.Args); diff != "" {
			t.Errorf("openerCommand(%q) args mismatch (-want +got):\n%s", o.goos, diff)
		}
	}
}
