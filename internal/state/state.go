// Package state persists UI state between runs: the active tab and the
// scroll position of each tab.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// State holds persistent UI state.
type State struct {
	ActiveTab int            `json:"activeTab"`
	Scroll    map[string]int `json:"scroll,omitempty"` // tab id -> first visible line
}

var (
	current *State
	mu      sync.RWMutex
	path    string
)

func defaults() *State {
	return &State{ActiveTab: 1, Scroll: make(map[string]int)}
}

// Init loads state from the default location.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	return InitWithDir(filepath.Join(home, ".config", "memopad"))
}

// InitWithDir loads state from a specified directory.
// This is primarily for testing to avoid reading real user state.
func InitWithDir(dir string) error {
	path = filepath.Join(dir, "state.json")
	return Load()
}

// Load reads state from disk.
func Load() error {
	mu.Lock()
	defer mu.Unlock()

	current = defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil // no state file yet, use defaults
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, current); err != nil {
		return err
	}
	if current.ActiveTab < 1 {
		current.ActiveTab = 1
	}
	if current.Scroll == nil {
		current.Scroll = make(map[string]int)
	}
	return nil
}

// Save writes state to disk.
func Save() error {
	mu.RLock()
	defer mu.RUnlock()

	if current == nil || path == "" {
		return nil
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetActiveTab returns the last active tab, 1 when unknown.
func GetActiveTab() int {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return 1
	}
	return current.ActiveTab
}

// SetActiveTab saves the active tab.
func SetActiveTab(tabID int) error {
	if tabID < 1 {
		return nil
	}
	mu.Lock()
	if current == nil {
		current = defaults()
	}
	current.ActiveTab = tabID
	mu.Unlock()
	return Save()
}

// GetScroll returns the saved scroll offset for a tab.
func GetScroll(tabID int) int {
	mu.RLock()
	defer mu.RUnlock()
	if current == nil {
		return 0
	}
	return current.Scroll[strconv.Itoa(tabID)]
}

// SetScroll saves the scroll offset for a tab.
func SetScroll(tabID, offset int) error {
	mu.Lock()
	if current == nil {
		current = defaults()
	}
	if offset <= 0 {
		delete(current.Scroll, strconv.Itoa(tabID))
	} else {
		current.Scroll[strconv.Itoa(tabID)] = offset
	}
	mu.Unlock()
	return Save()
}
