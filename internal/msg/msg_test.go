package msg

import (
	"testing"
	"time"
)

func TestShowToast(t *testing.T) {
	got, ok := ShowToast("Saved", time.Second)().(ToastMsg)
	if !ok || got.Message != "Saved" || got.Duration != time.Second || got.IsError {
		t.Errorf("ShowToast() = %+v", got)
	}
}

func TestShowErrorToast(t *testing.T) {
	got, ok := ShowErrorToast("Clipboard is empty", time.Second)().(ToastMsg)
	if !ok || !got.IsError {
		t.Errorf("ShowErrorToast() = %+v, want an error toast", got)
	}
}
