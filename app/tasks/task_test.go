package tasks

import (
	"testing"
	"time"
)

func TestNewTaskDefaults(t *testing.T) {
	task := NewTask(TaskTypeCollectLinks, "sa-transcripts")

	if task.GetType() != TaskTypeCollectLinks {
		t.Errorf("Expected type %q, got %q", TaskTypeCollectLinks, task.GetType())
	}
	if task.GetSourceName() != "sa-transcripts" {
		t.Errorf("Expected source 'sa-transcripts', got %q", task.GetSourceName())
	}
	if task.GetID() == "" {
		t.Error("Expected non-empty task ID")
	}
	if task.GetRetryCount() != 0 {
		t.Errorf("Expected retry count 0, got %d", task.GetRetryCount())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Expected max retries %d, got %d", DefaultMaxRetries, task.GetMaxRetries())
	}
}

func TestTaskRetryAccounting(t *testing.T) {
	task := NewTask(TaskTypeDownloadContent, "sa-transcripts")

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected retry %d to be allowed", i+1)
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Error("Expected retries to be exhausted")
	}
	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, task.GetRetryCount())
	}
}

func TestTaskDuration(t *testing.T) {
	task := NewTask(TaskTypeExtractTranscripts, "sa-transcripts")

	if task.GetDuration() != 0 {
		t.Errorf("Expected zero duration before start, got %v", task.GetDuration())
	}

	task.Start()
	time.Sleep(10 * time.Millisecond)

	if task.GetDuration() <= 0 {
		t.Errorf("Expected positive duration after start, got %v", task.GetDuration())
	}
}

func TestTaskIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		task := NewTask(TaskTypeSyncSourceConfig, "sa-transcripts")
		if seen[task.GetID()] {
			t.Fatalf("Duplicate task ID: %s", task.GetID())
		}
		seen[task.GetID()] = true
	}
}

func TestSafeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Corp Q2 2024 Earnings Call", "Acme_Corp_Q2_2024_Earnings_Call"},
		{"A/B: Test (Q&A)", "A_B__Test__Q_A_"},
		{"plain", "plain"},
	}

	for _, tc := range cases {
		if got := safeFilename(tc.in); got != tc.want {
			t.Errorf("safeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSafeFilenameTruncation(t *testing.T) {
	long := ""
	for i := 0; i < 80; i++ {
		long += "a"
	}

	got := safeFilename(long)
	if len([]rune(got)) != 50 {
		t.Errorf("Expected 50 runes, got %d", len([]rune(got)))
	}
}
