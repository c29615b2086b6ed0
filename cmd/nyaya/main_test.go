package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"--version"}, &out); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	if !strings.Contains(out.String(), "nyaya version") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"--help"}, &out); code != 0 {
		t.Fatalf("exit code %d", code)
	}
	for _, want := range []string{"Usage:", "/api/v1/chat", "suggest-sections"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestRun_BadFlag(t *testing.T) {
	var out bytes.Buffer
	if code := run([]string{"--no-such-flag"}, &out); code != 2 {
		t.Errorf("exit code %d, want 2", code)
	}
}
