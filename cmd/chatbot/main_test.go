package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hession/chatbot/internal/cli"
	"github.com/hession/chatbot/internal/config"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLogConfigInfo(t *testing.T) {
	cfg := config.DefaultConfig()

	// Should not panic
	logConfigInfo(cfg)

	cfg.Catalog.Path = "/tmp/catalog.yaml"
	logConfigInfo(cfg)
}

func TestVersion(t *testing.T) {
	if cli.Version != "2.0.0" {
		t.Errorf("Expected version '2.0.0', got '%s'", cli.Version)
	}

	out, err := runCmd(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "ChatBot v2.0.0") {
		t.Errorf("Unexpected version output: %s", out)
	}
}

func TestConfigCommand_Overrides(t *testing.T) {
	dir := t.TempDir()
	memFile := filepath.Join(dir, "mem.db")

	out, err := runCmd(t, "config", "--config-dir", dir, "--name", "Robo", "--backend", "sqlite", "--memory-file", memFile)
	if err != nil {
		t.Fatalf("config command failed: %v", err)
	}

	for _, want := range []string{"Name: Robo", "Backend: sqlite", "Path: " + memFile, filepath.Join(dir, "config.yaml"), "Log file path: "} {
		if !strings.Contains(out, want) {
			t.Errorf("config output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommand_InvalidBackend(t *testing.T) {
	dir := t.TempDir()

	if _, err := runCmd(t, "config", "--config-dir", dir, "--backend", "redis"); err == nil {
		t.Error("Expected an error for an unknown backend")
	}
}

func TestHistoryAndForgetCommands(t *testing.T) {
	dir := t.TempDir()
	memFile := filepath.Join(dir, "chatbot_memory.json")

	out, err := runCmd(t, "history", "--config-dir", dir, "--memory-file", memFile)
	if err != nil {
		t.Fatalf("history command failed: %v", err)
	}
	if !strings.Contains(out, "No conversations yet") {
		t.Errorf("Unexpected history output:\n%s", out)
	}

	out, err = runCmd(t, "forget", "--config-dir", dir, "--memory-file", memFile)
	if err != nil {
		t.Fatalf("forget command failed: %v", err)
	}
	if !strings.Contains(out, "Forgot 0 exchanges") {
		t.Errorf("Unexpected forget output:\n%s", out)
	}
}

func TestCatalogCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := runCmd(t, "catalog", "--config-dir", dir)
	if err != nil {
		t.Fatalf("catalog command failed: %v", err)
	}
	for _, want := range []string{"categories:", "name: greetings", "name: help", "defaults:"} {
		if !strings.Contains(out, want) {
			t.Errorf("catalog output missing %q", want)
		}
	}
}
