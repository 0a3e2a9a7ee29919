package store

import (
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var drivers = []string{DriverCGO, DriverPure}

func openTestStore(t *testing.T, driver string) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(driver, filepath.Join(t.TempDir(), "memopad.db"), logger)
	if err != nil {
		t.Fatalf("Open(%s) error: %v", driver, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func forEachDriver(t *testing.T, fn func(t *testing.T, s *Store)) {
	for _, d := range drivers {
		t.Run(d, func(t *testing.T) {
			fn(t, openTestStore(t, d))
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("postgres", filepath.Join(t.TempDir(), "x.db"), nil); err == nil {
		t.Error("Open with unknown driver should fail")
	}
}

func TestMemo_SaveLoad(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		got, err := s.LoadMemo(1)
		if err != nil || got != "" {
			t.Fatalf("LoadMemo(1) on empty store = %q, %v; want \"\", nil", got, err)
		}

		memo := `see <a href="http://x.io" target="_blank" rel="noopener noreferrer">http://x.io</a><br>next`
		if err := s.SaveMemo(1, memo); err != nil {
			t.Fatalf("SaveMemo: %v", err)
		}
		if err := s.SaveMemo(1, "replaced"); err != nil {
			t.Fatalf("SaveMemo overwrite: %v", err)
		}
		if err := s.SaveMemo(2, memo); err != nil {
			t.Fatalf("SaveMemo: %v", err)
		}

		if got, _ := s.LoadMemo(1); got != "replaced" {
			t.Errorf("LoadMemo(1) = %q, want %q", got, "replaced")
		}
		got, _ = s.LoadMemo(2)
		for _, want := range []string{`href="http://x.io"`, `target="_blank"`, "http://x.io</a>", "next"} {
			if !strings.Contains(got, want) {
				t.Errorf("LoadMemo(2) = %q, missing %q", got, want)
			}
		}

		all, err := s.AllMemos()
		if err != nil {
			t.Fatalf("AllMemos: %v", err)
		}
		if diff := cmp.Diff(map[int]string{1: "replaced", 2: memo}, all); diff != "" {
			t.Errorf("AllMemos mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMemo_InvalidTabID(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		if err := s.SaveMemo(0, "x"); !errors.Is(err, ErrInvalidTabID) {
			t.Errorf("SaveMemo(0) error = %v, want ErrInvalidTabID", err)
		}
		if _, err := s.LoadMemo(-1); !errors.Is(err, ErrInvalidTabID) {
			t.Errorf("LoadMemo(-1) error = %v, want ErrInvalidTabID", err)
		}
		if err := s.SaveTabSettings(0, DefaultTabSettings()); !errors.Is(err, ErrInvalidTabID) {
			t.Errorf("SaveTabSettings(0) error = %v, want ErrInvalidTabID", err)
		}
	})
}

func TestParseTabID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTabID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTabID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidTabID) {
			t.Errorf("ParseTabID(%q) error = %v, want ErrInvalidTabID", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseTabID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSettings_Defaults(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		g, err := s.LoadGlobalSettings()
		if err != nil || g.Theme != "light" {
			t.Errorf("LoadGlobalSettings() = %+v, %v; want light theme", g, err)
		}
		for _, id := range []int{1, 3, 7} {
			ts, err := s.LoadTabSettings(id)
			if err != nil {
				t.Fatalf("LoadTabSettings(%d): %v", id, err)
			}
			if diff := cmp.Diff(DefaultTabSettings(), ts); diff != "" {
				t.Errorf("LoadTabSettings(%d) mismatch (-want +got):\n%s", id, diff)
			}
		}
	})
}

func TestHasSettings(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		if ok, err := s.HasSettings(); ok || err != nil {
			t.Fatalf("HasSettings() on empty store = %v, %v; want false, nil", ok, err)
		}
		if err := s.SaveGlobalSettings(GlobalSettings{Theme: "dark"}); err != nil {
			t.Fatalf("SaveGlobalSettings: %v", err)
		}
		if ok, err := s.HasSettings(); !ok || err != nil {
			t.Errorf("HasSettings() after save = %v, %v; want true, nil", ok, err)
		}
	})
}

func TestSettings_ReadModifyWrite(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		two := TabSettings{FontFamily: "Mono", FontSize: "large"}
		if err := s.SaveTabSettings(2, two); err != nil {
			t.Fatalf("SaveTabSettings: %v", err)
		}
		if err := s.SaveGlobalSettings(GlobalSettings{Theme: "dark"}); err != nil {
			t.Fatalf("SaveGlobalSettings: %v", err)
		}

		// The theme update must keep tab settings.
		got, _ := s.LoadTabSettings(2)
		if diff := cmp.Diff(two, got); diff != "" {
			t.Errorf("LoadTabSettings(2) mismatch (-want +got):\n%s", diff)
		}
		if got, _ := s.LoadTabSettings(1); got != DefaultTabSettings() {
			t.Errorf("LoadTabSettings(1) = %+v, want defaults", got)
		}
		if g, _ := s.LoadGlobalSettings(); g.Theme != "dark" {
			t.Errorf("theme = %q, want dark", g.Theme)
		}

		// A tab update must keep the theme.
		if err := s.SaveTabSettings(1, TabSettings{FontFamily: "Serif"}); err != nil {
			t.Fatalf("SaveTabSettings: %v", err)
		}
		if g, _ := s.LoadGlobalSettings(); g.Theme != "dark" {
			t.Errorf("theme after tab update = %q, want dark", g.Theme)
		}
		got, _ = s.LoadTabSettings(1)
		if want := (TabSettings{FontFamily: "Serif", FontSize: DefaultFontSize}); got != want {
			t.Errorf("LoadTabSettings(1) = %+v, want %+v", got, want)
		}
	})
}

func TestSettings_CorruptDocument(t *testing.T) {
	forEachDriver(t, func(t *testing.T, s *Store) {
		if err := s.putKV(settingsKey, "{not json"); err != nil {
			t.Fatal(err)
		}
		g, err := s.LoadGlobalSettings()
		if err != nil || g.Theme != DefaultTheme {
			t.Errorf("LoadGlobalSettings() = %+v, %v; want defaults", g, err)
		}
	})
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "hello", "hello"},
		{"script", "<script>alert(1)</script>hi", "hi"},
		{"handler", `<b onclick="x()">b</b>`, "<b>b</b>"},
		{"javascript link", `<a href="javascript:alert(1)">x</a>`, "x"},
		{"image", `<img src="x" onerror="y()">t`, "t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitize_KeepsLinks(t *testing.T) {
	for _, in := range []string{
		`<a href="https://x.io/a?b=1" target="_blank" rel="noopener noreferrer">https://x.io/a?b=1</a>`,
		`<a href="mailto:a@b.com">a@b.com</a>`,
	} {
		got := Sanitize(in)
		if !strings.Contains(got, "<a ") || !strings.Contains(got, "href=") {
			t.Errorf("Sanitize(%q) = %q, link was dropped", in, got)
		}
	}
}
