package gui

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestLogViewer_Write(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	v := NewLogViewer()
	fmt.Fprint(v, "first line\nsecond ")
	fmt.Fprint(v, "line\n\n")

	messages := v.Messages()
	if len(messages) != 2 {
		t.Fatalf("Expected 2 messages, got %d: %v", len(messages), messages)
	}
	if !strings.HasSuffix(messages[0], "second line") {
		t.Errorf("Expected newest message first, got %q", messages[0])
	}
	if !strings.HasSuffix(messages[1], "first line") {
		t.Errorf("Unexpected oldest message %q", messages[1])
	}
}

func TestLogViewer_SlogHandler(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	v := NewLogViewer()
	logger := slog.New(slog.NewTextHandler(v, nil))
	logger.Info("Fetched entry", "traditional", "你好")

	messages := v.Messages()
	if len(messages) != 1 || !strings.Contains(messages[0], "traditional=你好") {
		t.Errorf("Unexpected messages %v", messages)
	}
}

func TestLogViewer_Trim(t *testing.T) {
	testApp := test.NewApp()
	defer testApp.Quit()

	v := NewLogViewer()
	v.maxMessages = 3
	for i := 0; i < 5; i++ {
		v.AddMessage(fmt.Sprintf("message %d", i))
	}

	messages := v.Messages()
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}
	if !strings.HasSuffix(messages[0], "message 4") || !strings.HasSuffix(messages[2], "message 2") {
		t.Errorf("Unexpected trimmed messages %v", messages)
	}

	v.Clear()
	if len(v.Messages()) != 0 {
		t.Error("Expected no messages after Clear")
	}
}
