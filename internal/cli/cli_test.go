package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/temirov/treecontent/internal/tokenizer"
	"github.com/temirov/treecontent/internal/utils"
)

const fixedArtifactName = "tree.20250304050607.txt"

var fixedMoment = time.Date(2025, time.March, 4, 5, 6, 7, 0, time.Local)

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

type runeCounter struct{}

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type commandResult struct {
	stdout string
	logs   string
	err    error
}

// prepareWorkspace isolates configuration lookup and switches into a fresh working directory.
func prepareWorkspace(t *testing.T) string {
	t.Helper()
	homeDirectory := t.TempDir()
	t.Setenv("HOME", homeDirectory)
	t.Setenv("USERPROFILE", homeDirectory)
	workspace := t.TempDir()
	previousDirectory, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(workspace); err != nil {
		t.Fatalf("chdir %s: %v", workspace, err)
	}
	t.Setenv("PWD", workspace)
	t.Cleanup(func() {
		if err := os.Chdir(previousDirectory); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
	return workspace
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for relativePath, content := range files {
		absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
		if strings.HasSuffix(relativePath, "/") {
			if err := os.MkdirAll(absolutePath, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", absolutePath, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(absolutePath), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(absolutePath), err)
		}
		if err := os.WriteFile(absolutePath, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", absolutePath, err)
		}
	}
}

func runCommand(t *testing.T, dependencies Dependencies, arguments ...string) commandResult {
	t.Helper()
	var stdout bytes.Buffer
	var logs bytes.Buffer
	dependencies.Stdout = &stdout
	dependencies.Logger = utils.NewWriterLogger(&logs)
	if dependencies.Now == nil {
		dependencies.Now = func() time.Time { return fixedMoment }
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = &recordingCopier{}
	}
	rootCommand := NewRootCommand(dependencies)
	rootCommand.SetOut(io.Discard)
	rootCommand.SetErr(io.Discard)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	executionError := rootCommand.Execute()
	return commandResult{stdout: stdout.String(), logs: logs.String(), err: executionError}
}

func readArtifact(t *testing.T, directory string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(directory, fixedArtifactName))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	return string(content)
}

func TestRenderWritesTimestampedArtifact(t *testing.T) {
	workspace := prepareWorkspace(t)
	project := t.TempDir()
	writeFiles(t, project, map[string]string{
		"zebra.txt":           "stripes",
		"alpha/":              "",
		"node_modules/x.js":   "x",
		"node_modules/y/z.ts": "z",
	})

	result := runCommand(t, Dependencies{}, project)

	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if result.stdout != "Directory structure saved to "+fixedArtifactName+".\n" {
		t.Fatalf("unexpected stdout %q", result.stdout)
	}
	if artifact := readArtifact(t, workspace); artifact != "+-- alpha\n\\-- zebra.txt\n" {
		t.Fatalf("unexpected artifact %q", artifact)
	}
	if !strings.Contains(result.logs, "1 directories, 1 files, 24b") {
		t.Fatalf("missing summary in logs %q", result.logs)
	}
}

func TestRenderDefaultsToWorkingDirectory(t *testing.T) {
	workspace := prepareWorkspace(t)
	writeFiles(t, workspace, map[string]string{"app.ts": "let  x\n= 1;"})

	result := runCommand(t, Dependencies{})

	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	expected := "+-- app.ts: let x = 1;\n\\-- " + fixedArtifactName + "\n"
	if artifact := readArtifact(t, workspace); artifact != expected {
		t.Fatalf("expected %q, got %q", expected, artifact)
	}
}

func TestRenderContentFlagAndConfiguration(t *testing.T) {
	testCases := []struct {
		name          string
		configuration string
		arguments     []string
		expected      string
	}{
		{name: "content by default", arguments: nil, expected: "\\-- page.html: <b>hi</b>\n"},
		{name: "flag literal disables content", arguments: []string{"--content", "no"}, expected: "\\-- page.html\n"},
		{name: "flag equals disables content", arguments: []string{"--content=false"}, expected: "\\-- page.html\n"},
		{name: "configuration disables content", configuration: "render:\n  content: false\n", expected: "\\-- page.html\n"},
		{name: "flag overrides configuration", configuration: "render:\n  content: false\n", arguments: []string{"--content"}, expected: "\\-- page.html: <b>hi</b>\n"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			workspace := prepareWorkspace(t)
			if testCase.configuration != "" {
				writeFiles(t, workspace, map[string]string{utils.ConfigFileName: testCase.configuration})
			}
			project := t.TempDir()
			writeFiles(t, project, map[string]string{"page.html": "<b>hi</b>\n"})

			result := runCommand(t, Dependencies{}, append(testCase.arguments, project)...)

			if result.err != nil {
				t.Fatalf("unexpected error: %v", result.err)
			}
			if artifact := readArtifact(t, workspace); artifact != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, artifact)
			}
		})
	}
}

func TestRenderExtendsNameSets(t *testing.T) {
	workspace := prepareWorkspace(t)
	writeFiles(t, workspace, map[string]string{utils.ConfigFileName: "render:\n  exclude: [build]\n"})
	project := t.TempDir()
	writeFiles(t, project, map[string]string{
		"build/out.js":         "",
		"coverage/index.html":  "<html></html>",
		"README.md":            "# Read\nme",
		"src/dist/bundle.js":   "",
		"src/component.ts":     "export {}",
		"src/component.spec.t": "",
	})

	result := runCommand(t, Dependencies{}, "-e", "coverage", "-x", "md", project)

	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	expected := "+-- src\n" +
		"|   +-- component.spec.t\n" +
		"|   \\-- component.ts: export {}\n" +
		"\\-- README.md: # Read me\n"
	if artifact := readArtifact(t, workspace); artifact != expected {
		t.Fatalf("expected %q, got %q", expected, artifact)
	}
}

func TestRenderWritesIntoOutputDirectory(t *testing.T) {
	prepareWorkspace(t)
	project := t.TempDir()
	writeFiles(t, project, map[string]string{"a.txt": ""})
	outputDirectory := t.TempDir()

	result := runCommand(t, Dependencies{}, "--output-dir", outputDirectory, project)

	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	artifactPath := filepath.Join(outputDirectory, fixedArtifactName)
	if result.stdout != "Directory structure saved to "+artifactPath+".\n" {
		t.Fatalf("unexpected stdout %q", result.stdout)
	}
	if artifact := readArtifact(t, outputDirectory); artifact != "\\-- a.txt\n" {
		t.Fatalf("unexpected artifact %q", artifact)
	}
}

func TestRenderFailsWithoutCreatingArtifact(t *testing.T) {
	testCases := []struct {
		name      string
		arguments func(project string) []string
		message   string
	}{
		{
			name:      "too many arguments",
			arguments: func(project string) []string { return []string{project, project} },
			message:   "accepts at most 1 arg",
		},
		{
			name:      "missing explicit configuration",
			arguments: func(project string) []string { return []string{"--config", "absent.yaml", project} },
			message:   "absent.yaml",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			workspace := prepareWorkspace(t)
			project := t.TempDir()
			writeFiles(t, project, map[string]string{"file.txt": ""})

			result := runCommand(t, Dependencies{}, testCase.arguments(project)...)

			if result.err == nil || !strings.Contains(result.err.Error(), testCase.message) {
				t.Fatalf("expected error containing %q, got %v", testCase.message, result.err)
			}
			if _, statErr := os.Stat(filepath.Join(workspace, fixedArtifactName)); !errors.Is(statErr, os.ErrNotExist) {
				t.Fatalf("artifact must not be created, stat returned %v", statErr)
			}
		})
	}
}

func TestRenderReportsUnlistableRoot(t *testing.T) {
	testCases := []struct {
		name     string
		rootName string
	}{
		{name: "missing root", rootName: "vanished"},
		{name: "file root", rootName: "file.txt"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			workspace := prepareWorkspace(t)
			writeFiles(t, workspace, map[string]string{"file.txt": ""})
			rootPath := filepath.Join(workspace, testCase.rootName)

			result := runCommand(t, Dependencies{}, rootPath)

			if result.err != nil {
				t.Fatalf("unlistable root must not fail the run: %v", result.err)
			}
			if result.stdout != "Directory structure saved to "+fixedArtifactName+".\n" {
				t.Fatalf("unexpected stdout %q", result.stdout)
			}
			if artifact := readArtifact(t, workspace); artifact != "" {
				t.Fatalf("expected empty artifact, got %q", artifact)
			}
			if !strings.Contains(result.logs, "Error processing path "+rootPath+": ") {
				t.Fatalf("missing diagnostic in logs %q", result.logs)
			}
			if !strings.Contains(result.logs, "1 directories could not be listed") {
				t.Fatalf("missing skipped summary in logs %q", result.logs)
			}
		})
	}
}

func TestRenderFailsWhenArtifactCannotBeCreated(t *testing.T) {
	prepareWorkspace(t)
	project := t.TempDir()

	result := runCommand(t, Dependencies{}, "--output-dir", filepath.Join(project, "missing"), project)

	if result.err == nil || !strings.Contains(result.err.Error(), "creating output file") {
		t.Fatalf("expected artifact creation failure, got %v", result.err)
	}
	if result.stdout != "" {
		t.Fatalf("no confirmation expected, got %q", result.stdout)
	}
}

func TestRenderCopiesArtifactToClipboard(t *testing.T) {
	prepareWorkspace(t)
	project := t.TempDir()
	writeFiles(t, project, map[string]string{"index.html": "<p>x</p>"})
	copier := &recordingCopier{}

	result := runCommand(t, Dependencies{Clipboard: copier}, "--copy", project)

	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if len(copier.copied) != 1 || copier.copied[0] != "\\-- index.html: <p>x</p>\n" {
		t.Fatalf("unexpected clipboard content %q", copier.copied)
	}
	if !strings.Contains(result.logs, copiedMessage) {
		t.Fatalf("missing clipboard confirmation in logs %q", result.logs)
	}
}

func TestRenderReportsTokens(t *testing.T) {
	prepareWorkspace(t)
	project := t.TempDir()
	writeFiles(t, project, map[string]string{"a.txt": ""})
	var requestedModel string
	newCounter := func(cfg tokenizer.Config) (tokenizer.Counter, string, error) {
		requestedModel = cfg.Model
		return runeCounter{}, "stub", nil
	}

	result := runCommand(t, Dependencies{NewCounter: newCounter}, "--tokens", "--model", "gpt-4o-mini", project)

	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if requestedModel != "gpt-4o-mini" {
		t.Fatalf("expected model gpt-4o-mini, got %q", requestedModel)
	}
	if !strings.Contains(result.logs, "10 tokens (stub)") {
		t.Fatalf("missing token report in logs %q", result.logs)
	}
}

func TestRenderSurfacesTokenizerFailure(t *testing.T) {
	workspace := prepareWorkspace(t)
	project := t.TempDir()
	newCounter := func(tokenizer.Config) (tokenizer.Counter, string, error) {
		return nil, "", errors.New("encoding download failed")
	}

	result := runCommand(t, Dependencies{NewCounter: newCounter}, "--tokens", project)

	if result.err == nil || !strings.Contains(result.err.Error(), "encoding download failed") {
		t.Fatalf("expected tokenizer failure, got %v", result.err)
	}
	if artifact := readArtifact(t, workspace); artifact != "" {
		t.Fatalf("expected empty artifact for an empty project, got %q", artifact)
	}
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	workspace := prepareWorkspace(t)

	result := runCommand(t, Dependencies{}, "init")
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	configurationPath := filepath.Join(workspace, utils.ConfigFileName)
	if result.stdout != "Configuration written to "+configurationPath+"\n" {
		t.Fatalf("unexpected stdout %q", result.stdout)
	}

	second := runCommand(t, Dependencies{}, "init")
	if second.err == nil {
		t.Fatalf("expected init to refuse overwriting")
	}
	forced := runCommand(t, Dependencies{}, "init", "--force", "yes")
	if forced.err != nil {
		t.Fatalf("unexpected error with --force: %v", forced.err)
	}
}

func TestVersionFlagPrintsVersion(t *testing.T) {
	workspace := prepareWorkspace(t)

	result := runCommand(t, Dependencies{}, "--version")

	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if !strings.HasPrefix(result.stdout, "treecontent version: ") {
		t.Fatalf("unexpected stdout %q", result.stdout)
	}
	if _, statErr := os.Stat(filepath.Join(workspace, fixedArtifactName)); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("version must not render a tree")
	}
}

func TestDisplayPath(t *testing.T) {
	workingDirectory := filepath.Join(string(filepath.Separator), "work")
	testCases := map[string]string{
		filepath.Join(workingDirectory, fixedArtifactName):          fixedArtifactName,
		filepath.Join(workingDirectory, "out", fixedArtifactName):   filepath.Join("out", fixedArtifactName),
		filepath.Join(string(filepath.Separator), "elsewhere", "t"): filepath.Join(string(filepath.Separator), "elsewhere", "t"),
	}
	for artifactPath, expected := range testCases {
		if actual := displayPath(artifactPath, workingDirectory); actual != expected {
			t.Errorf("displayPath(%q): expected %q, got %q", artifactPath, expected, actual)
		}
	}
}
