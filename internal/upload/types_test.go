package upload

import (
	"testing"

	"mediaup/internal/services/mediaapi"
)

func TestStatusFromWirePrefersVideoURL(t *testing.T) {
	t.Parallel()

	status := statusFromWire(&mediaapi.StatusResponse{
		UploadID: "u-1",
		Status:   "Completed",
		URL:      "https://cdn.example.com/raw",
		VideoURL: "https://cdn.example.com/v/demo.mp4",
	})
	if status.MediaURL != "https://cdn.example.com/v/demo.mp4" {
		t.Fatalf("unexpected media url %q", status.MediaURL)
	}

	status = statusFromWire(&mediaapi.StatusResponse{
		UploadID: "u-2",
		Status:   "Completed",
		URL:      "https://cdn.example.com/i/a.png",
	})
	if status.MediaURL != "https://cdn.example.com/i/a.png" {
		t.Fatalf("unexpected media url %q", status.MediaURL)
	}
}

func TestParseState(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"Pending", "Processing", "Completed", "Failed"} {
		if _, ok := ParseState(value); !ok {
			t.Fatalf("ParseState(%q) not recognized", value)
		}
	}
	if _, ok := ParseState("pending"); ok {
		t.Fatal("state parsing must be case sensitive")
	}
	if !StateCompleted.IsTerminal() || !StateFailed.IsTerminal() {
		t.Fatal("Completed and Failed are terminal")
	}
	if StatePending.IsTerminal() || StateProcessing.IsTerminal() {
		t.Fatal("Pending and Processing are not terminal")
	}
}

func TestCoarsePercent(t *testing.T) {
	t.Parallel()

	cases := map[State]int{
		StatePending:    25,
		StateProcessing: 75,
		StateCompleted:  100,
		StateFailed:     0,
	}
	for state, want := range cases {
		if got := coarsePercent(state); got != want {
			t.Fatalf("coarsePercent(%s) = %d, want %d", state, got, want)
		}
	}
}
