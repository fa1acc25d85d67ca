package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pa-cli/internal/assembler"
	"pa-cli/pkg/models"
)

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	a := &App{
		Stdout:    out,
		Stderr:    errOut,
		ReadStdin: func() (string, bool) { return "", false },
		PickPrompt: func(names []string) (string, error) {
			return "", errors.New("picker should not run")
		},
		Interactive: func() bool { return false },
	}
	return a, out, errOut
}

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	config := `[prompt.greeting]
prompts = ["hello.txt"]
description = "Say hello"
tags = ["demo"]

[prompt.report]
template = "report.tmpl"
`
	writeFile(t, filepath.Join(dir, "config.toml"), config)
	writeFile(t, filepath.Join(dir, "hello.txt"), "Hello {0}!\n")
	writeFile(t, filepath.Join(dir, "report.tmpl"), "Status: {{ .status }}\n")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestRunSequencePrompt(t *testing.T) {
	dir := writeFixture(t)
	a, out, _ := newTestApp()

	err := a.Run(&models.Request{ConfigDir: dir, Prompt: "greeting", Args: []string{"World"}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "Hello World!\n" {
		t.Errorf("output = %q, expected %q", out.String(), "Hello World!\n")
	}
}

func TestRunStdinBecomesFirstArgument(t *testing.T) {
	dir := writeFixture(t)
	a, out, _ := newTestApp()
	a.ReadStdin = func() (string, bool) { return "World", true }

	err := a.Run(&models.Request{ConfigDir: dir, Prompt: "greeting"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "Hello World!\n" {
		t.Errorf("output = %q, expected %q", out.String(), "Hello World!\n")
	}
}

func TestRunTemplatePrompt(t *testing.T) {
	dir := writeFixture(t)
	dataPath := filepath.Join(dir, "data.json")
	writeFile(t, dataPath, `{"status": "green"}`)
	a, out, _ := newTestApp()

	err := a.Run(&models.Request{ConfigDir: dir, Prompt: "report", Args: []string{dataPath}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.String() != "Status: green\n" {
		t.Errorf("output = %q, expected %q", out.String(), "Status: green\n")
	}
}

func TestRunSequenceRejectsDataFile(t *testing.T) {
	dir := writeFixture(t)
	a, _, _ := newTestApp()

	err := a.Run(&models.Request{ConfigDir: dir, Prompt: "greeting", Args: []string{"vars.json"}})
	var notAccepted *assembler.DataNotAcceptedError
	if !errors.As(err, &notAccepted) {
		t.Fatalf("expected DataNotAcceptedError, got %v", err)
	}
}

func TestRunTemplateRequiresData(t *testing.T) {
	dir := writeFixture(t)
	a, _, _ := newTestApp()

	err := a.Run(&models.Request{ConfigDir: dir, Prompt: "report"})
	var required *assembler.DataRequiredError
	if !errors.As(err, &required) {
		t.Fatalf("expected DataRequiredError, got %v", err)
	}
}

func TestRunWithoutPromptNonInteractive(t *testing.T) {
	dir := writeFixture(t)
	a, _, _ := newTestApp()

	err := a.Run(&models.Request{ConfigDir: dir})
	if err == nil || !strings.Contains(err.Error(), "prompt name is required") {
		t.Fatalf("expected required-name error, got %v", err)
	}
}

func TestRunInteractivePicker(t *testing.T) {
	dir := writeFixture(t)
	a, out, _ := newTestApp()
	a.Interactive = func() bool { return true }
	a.PickPrompt = func(names []string) (string, error) {
		if len(names) != 2 {
			t.Errorf("picker got %d names, expected 2", len(names))
		}
		return "greeting", nil
	}

	err := a.Run(&models.Request{ConfigDir: dir, Args: nil})
	// Without a prompt argument the sequence has an unfilled placeholder.
	if err == nil {
		t.Fatalf("expected missing-argument error, got output %q", out.String())
	}
}

func TestRunFileTarget(t *testing.T) {
	dir := writeFixture(t)
	outPath := filepath.Join(t.TempDir(), "out.txt")
	a, out, _ := newTestApp()

	err := a.Run(&models.Request{
		ConfigDir: dir,
		Prompt:    "greeting",
		Args:      []string{"World"},
		Target:    "file:" + outPath,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("stdout should stay empty for a file target, got %q", out.String())
	}
	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(written) != "Hello World!\n" {
		t.Errorf("file content = %q, expected %q", written, "Hello World!\n")
	}
}

func TestListNames(t *testing.T) {
	dir := writeFixture(t)
	a, out, _ := newTestApp()

	if err := a.List(&models.Request{ConfigDir: dir}); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.String() != "greeting\nreport\n" {
		t.Errorf("output = %q, expected %q", out.String(), "greeting\nreport\n")
	}
}

func TestListJSONEnvelope(t *testing.T) {
	dir := writeFixture(t)
	a, out, _ := newTestApp()

	if err := a.List(&models.Request{ConfigDir: dir, JSON: true}); err != nil {
		t.Fatalf("List failed: %v", err)
	}

	var envelope struct {
		SchemaVersion int `json:"schema_version"`
		GeneratedAt   string `json:"generated_at"`
		Prompts       []struct {
			Name           string   `json:"name"`
			Description    string   `json:"description"`
			Tags           []string `json:"tags"`
			StdinSupported bool     `json:"stdin_supported"`
			SourcePath     string   `json:"source_path"`
		} `json:"prompts"`
	}
	if err := json.Unmarshal(out.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if envelope.SchemaVersion != 1 {
		t.Errorf("schema_version = %d, expected 1", envelope.SchemaVersion)
	}
	if envelope.GeneratedAt == "" {
		t.Error("generated_at is empty")
	}
	if len(envelope.Prompts) != 2 {
		t.Fatalf("got %d prompts, expected 2", len(envelope.Prompts))
	}
	greeting := envelope.Prompts[0]
	if greeting.Name != "greeting" || greeting.Description != "Say hello" {
		t.Errorf("unexpected first prompt: %+v", greeting)
	}
	if !greeting.StdinSupported {
		t.Error("sequence prompt should support stdin by default")
	}
	if greeting.SourcePath == "" {
		t.Error("source_path is empty")
	}
	if envelope.Prompts[1].StdinSupported {
		t.Error("template prompt should not support stdin by default")
	}
}

func TestListEmptyRegistry(t *testing.T) {
	dir := t.TempDir()
	a, _, _ := newTestApp()

	err := a.List(&models.Request{ConfigDir: dir})
	if err == nil || !strings.Contains(err.Error(), "no prompts defined") {
		t.Fatalf("expected no-prompts error, got %v", err)
	}
}

func TestShowHuman(t *testing.T) {
	dir := writeFixture(t)
	a, out, _ := newTestApp()

	if err := a.Show(&models.Request{ConfigDir: dir, Prompt: "greeting"}); err != nil {
		t.Fatalf("Show failed: %v", err)
	}
	for _, want := range []string{"name: greeting", "kind: sequence", "description: Say hello", "tags: demo", "stdin supported: yes"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestShowUnknownPrompt(t *testing.T) {
	dir := writeFixture(t)
	a, _, _ := newTestApp()

	err := a.Show(&models.Request{ConfigDir: dir, Prompt: "missing"})
	var unknown *assembler.UnknownPromptError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownPromptError, got %v", err)
	}
}

func TestShowJSONIncludesProfile(t *testing.T) {
	dir := writeFixture(t)
	a, out, _ := newTestApp()

	if err := a.Show(&models.Request{ConfigDir: dir, Prompt: "greeting", JSON: true}); err != nil {
		t.Fatalf("Show failed: %v", err)
	}

	var payload struct {
		Name    string `json:"name"`
		Profile struct {
			Kind    string `json:"kind"`
			Content string `json:"content"`
			Parts   []struct {
				Path    string `json:"path"`
				Content string `json:"content"`
			} `json:"parts"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(out.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Name != "greeting" {
		t.Errorf("name = %q, expected greeting", payload.Name)
	}
	if payload.Profile.Kind != "sequence" {
		t.Errorf("profile kind = %q, expected sequence", payload.Profile.Kind)
	}
	if len(payload.Profile.Parts) != 1 || payload.Profile.Parts[0].Content != "Hello {0}!\n" {
		t.Errorf("unexpected parts: %+v", payload.Profile.Parts)
	}
	if payload.Profile.Content != "Hello {0}!\n" {
		t.Errorf("combined content = %q", payload.Profile.Content)
	}
}

func TestValidateOK(t *testing.T) {
	dir := writeFixture(t)
	a, out, _ := newTestApp()

	if err := a.Validate(&models.Request{ConfigDir: dir}); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !strings.Contains(out.String(), "configuration is valid") {
		t.Errorf("output = %q", out.String())
	}
}

func TestValidateReportsWarnings(t *testing.T) {
	dir := writeFixture(t)
	overlay := `[prompt.greeting]
prompts = ["hello.txt"]
`
	writeFile(t, filepath.Join(dir, "conf.d", "10-extra.toml"), overlay)
	a, out, errOut := newTestApp()

	if err := a.Validate(&models.Request{ConfigDir: dir}); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !strings.Contains(errOut.String(), "overrides definition") {
		t.Errorf("stderr missing override warning: %q", errOut.String())
	}
	if !strings.Contains(out.String(), "configuration is valid") {
		t.Errorf("output = %q", out.String())
	}
}

func TestValidateInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), `[prompt.bad]
prompts = ["a.txt"]
template = "b.tmpl"
`)
	a, _, errOut := newTestApp()

	err := a.Validate(&models.Request{ConfigDir: dir})
	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != ExitInvalidConfig {
		t.Fatalf("expected exit code %d, got %v", ExitInvalidConfig, err)
	}
	if !strings.Contains(errOut.String(), "exclusive") {
		t.Errorf("stderr missing diagnostics: %q", errOut.String())
	}
}

func TestValidateJSONInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), `[prompt.bad]
prompts = []
`)
	a, out, _ := newTestApp()

	err := a.Validate(&models.Request{ConfigDir: dir, JSON: true})
	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != ExitInvalidConfig {
		t.Fatalf("expected exit code %d, got %v", ExitInvalidConfig, err)
	}

	var envelope struct {
		SchemaVersion int `json:"schema_version"`
		Errors        []struct {
			File    string `json:"file"`
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"errors"`
		Warnings []any `json:"warnings"`
	}
	if err := json.Unmarshal(out.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(envelope.Errors) != 1 {
		t.Fatalf("got %d errors, expected 1", len(envelope.Errors))
	}
	if envelope.Errors[0].Code != "invalid_prompt" {
		t.Errorf("code = %q, expected invalid_prompt", envelope.Errors[0].Code)
	}
	if envelope.Warnings == nil {
		t.Error("warnings should marshal as an empty array, not null")
	}
}

func TestRunInvalidConfigExitCode(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.toml"), "not valid toml [")
	a, _, errOut := newTestApp()

	err := a.Run(&models.Request{ConfigDir: dir, Prompt: "anything"})
	var exit *ExitError
	if !errors.As(err, &exit) || exit.Code != ExitInvalidConfig {
		t.Fatalf("expected exit code %d, got %v", ExitInvalidConfig, err)
	}
	if !strings.Contains(errOut.String(), "parse_error") {
		t.Errorf("stderr missing parse diagnostics: %q", errOut.String())
	}
}

func TestPartsConcatenatesVerbatim(t *testing.T) {
	dir := writeFixture(t)
	writeFile(t, filepath.Join(dir, "closing.txt"), "Bye\n")
	a, out, _ := newTestApp()

	err := a.Parts(&models.Request{ConfigDir: dir, Files: []string{"hello.txt", "closing.txt"}})
	if err != nil {
		t.Fatalf("Parts failed: %v", err)
	}
	if out.String() != "Hello {0}!\nBye\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestEnsureInitialized(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")

	if err := EnsureInitialized(dir); err != nil {
		t.Fatalf("EnsureInitialized failed: %v", err)
	}
	path := filepath.Join(dir, "config.toml")
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("starter config missing: %v", err)
	}
	if !strings.Contains(string(content), "pa configuration") {
		t.Errorf("unexpected starter content: %q", content)
	}

	// A second call must leave an existing file alone.
	writeFile(t, path, "[prompt.keep]\nprompts = [\"x.txt\"]\n")
	if err := EnsureInitialized(dir); err != nil {
		t.Fatalf("EnsureInitialized failed on existing dir: %v", err)
	}
	content, _ = os.ReadFile(path)
	if !strings.Contains(string(content), "prompt.keep") {
		t.Error("existing config was overwritten")
	}
}
