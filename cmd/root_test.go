package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zhubert/agentdeck/internal/attachment"
	"github.com/zhubert/agentdeck/internal/config"
	"github.com/zhubert/agentdeck/internal/logger"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "agentdeck-cmd")
	if err != nil {
		panic(err)
	}
	logFile = filepath.Join(dir, "test.log")
	if err := logger.Init(logFile); err != nil {
		panic(err)
	}
	code := m.Run()
	logger.Reset()
	os.RemoveAll(dir)
	os.Exit(code)
}

func TestPersistentFlags(t *testing.T) {
	tests := []struct {
		name      string
		def       string
		shorthand string
	}{
		{"debug", "false", ""},
		{"quiet", "false", "q"},
		{"api-url", "", ""},
		{"log-file", logger.DefaultLogPath, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("--%s flag not found", tt.name)
			}
			if flag.DefValue != tt.def {
				t.Errorf("--%s default = %q, want %q", tt.name, flag.DefValue, tt.def)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("--%s shorthand = %q, want %q", tt.name, flag.Shorthand, tt.shorthand)
			}
		})
	}
}

func TestSubcommandsRegistered(t *testing.T) {
	for _, name := range []string{"send", "actions", "config", "clean"} {
		if c, _, err := rootCmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestInitConfig_QuietOverridesDebug(t *testing.T) {
	origDebug, origQuiet := debugMode, quietMode
	defer func() { debugMode, quietMode = origDebug, origQuiet }()

	debugMode = true
	quietMode = true

	// Should not panic - quiet should take precedence
	initConfig()
}

func TestVersionTemplate(t *testing.T) {
	origV, origC, origD := version, commit, date
	defer SetVersionInfo(origV, origC, origD)

	SetVersionInfo("1.2.3", "none", "unknown")
	if got := versionTemplate(); got != "agentdeck 1.2.3\n" {
		t.Errorf("versionTemplate() = %q", got)
	}

	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	got := versionTemplate()
	if !strings.Contains(got, "commit: abc123") || !strings.Contains(got, "built:  2026-01-01") {
		t.Errorf("versionTemplate() = %q, want commit and date", got)
	}
}

// backend serves the endpoints the CLI talks to and records chat messages.
type backend struct {
	messages []string
	files    []string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/api/chat":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.messages = append(b.messages, r.FormValue("message"))
		for _, fh := range r.MultipartForm.File["files"] {
			b.files = append(b.files, fh.Filename)
		}
		io.WriteString(w, `{"mode":"text","text":{"content":"hello from the agent"}}`)
	case r.URL.Path == "/api/actions":
		io.WriteString(w, `[{"name":"search","description":"Search the web","arguments_sig":"[{\"arg_name\":\"query\",\"arg_type\":\"str\"}]"},"noop"]`)
	case r.URL.Path == "/api/config/":
		io.WriteString(w, `{"global_model_config":{"name":"gpt-4o","max_tokens":16000,"temperature":0.2},"planner":{"model_config":{"name":"o3"}}}`)
	case r.URL.Path == "/api/config/planner":
		io.WriteString(w, `{"model_config":{"name":"o3","max_tokens":4096},"prompt":"planner.md","prompt_content":"You plan things."}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"detail":"not found"}`)
	}
}

// runCLI executes the root command against srv and returns its output.
func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, env := range []string{config.EnvAPIURL, config.EnvLegacyAPIURL, config.EnvTheme, config.EnvMaxAttachment, config.EnvOTelEndpoint} {
		t.Setenv(env, "")
	}

	apiURL, sendFiles, sendJSON, inspectJSON = "", nil, false, false
	t.Cleanup(func() {
		apiURL, sendFiles, sendJSON, inspectJSON = "", nil, false, false
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append(args, "--api-url", srv.URL+"/api"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSendCommand(t *testing.T) {
	b := &backend{}
	srv := httptest.NewServer(b)
	defer srv.Close()

	note := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(note, []byte("# notes"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, srv, "send", "-f", note, "summarize", "this")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if strings.TrimSpace(out) != "hello from the agent" {
		t.Errorf("output = %q", out)
	}
	if len(b.messages) != 1 || b.messages[0] != "summarize this" {
		t.Errorf("messages = %v", b.messages)
	}
	if len(b.files) != 1 || b.files[0] != "notes.md" {
		t.Errorf("files = %v", b.files)
	}
}

func TestSendCommand_JSON(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	out, err := runCLI(t, srv, "send", "--json", "hi")
	if err != nil {
		t.Fatalf("send --json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["mode"] != "text" {
		t.Errorf("mode = %v", decoded["mode"])
	}
}

func TestSendCommand_Errors(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	if _, err := runCLI(t, srv, "send"); err == nil || !strings.Contains(err.Error(), "nothing to send") {
		t.Errorf("empty send error = %v", err)
	}

	exe := filepath.Join(t.TempDir(), "tool.exe")
	if err := os.WriteFile(exe, []byte("MZ"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := runCLI(t, srv, "send", "-f", exe, "run it"); err == nil {
		t.Error("unsupported attachment should fail")
	}
}

func TestSendCommand_BackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	if _, err := runCLI(t, srv, "send", "hi"); err == nil {
		t.Error("send to a closed server should fail")
	}
}

func TestActionsCommand(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	out, err := runCLI(t, srv, "actions")
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	for _, want := range []string{"ACTION", "search", "Search the web", "query: str", "noop"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"global", []string{"config"}, []string{"Global", "gpt-4o", "16,000", "0.20", "planner", `"name": "o3"`}},
		{"agent", []string{"config", "planner"}, []string{"planner", "o3", "4,096", "N/A", "planner.md", "You plan things."}},
		{"agent json", []string{"config", "planner", "--json"}, []string{`"prompt_content": "You plan things."`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, srv, tt.args...)
			if err != nil {
				t.Fatalf("%v: %v", tt.args, err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestConfigCommand_UnknownAgent(t *testing.T) {
	srv := httptest.NewServer(&backend{})
	defer srv.Close()

	if _, err := runCLI(t, srv, "config", "nobody"); err == nil {
		t.Error("unknown agent should fail")
	}
}

func TestResolveAttachments(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, size int) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, bytes.Repeat([]byte("a"), size), 0644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	md := write("a.md", 10)
	big := write("big.txt", 2048)
	exe := write("b.exe", 10)

	zip := write("c.zip", 10)

	tests := []struct {
		name     string
		paths    []string
		want     int
		wantErr  bool
		warnings []string
	}{
		{"none", nil, 0, false, nil},
		{"accepted", []string{md}, 1, false, nil},
		{"missing", []string{filepath.Join(dir, "gone.md")}, 0, true, nil},
		{"unsupported", []string{md, exe}, 0, true, []string{"b.exe"}},
		{"every rejection reported", []string{exe, md, zip}, 0, true, []string{"b.exe", "c.zip"}},
		{"too large", []string{big}, 0, true, []string{"big.txt"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var warn bytes.Buffer
			got, err := resolveAttachments(&warn, tt.paths, attachment.Limit(1024))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("got %d attachments, want %d", len(got), tt.want)
			}
			lines := strings.Split(strings.TrimSpace(warn.String()), "\n")
			if len(tt.warnings) == 0 {
				lines = nil
				if warn.Len() != 0 {
					t.Errorf("unexpected warnings: %q", warn.String())
				}
			}
			if len(lines) != len(tt.warnings) {
				t.Fatalf("warnings = %q, want one line per rejected file", warn.String())
			}
			for i, name := range tt.warnings {
				if !strings.Contains(lines[i], name) {
					t.Errorf("warning %d = %q, want it to name %s", i, lines[i], name)
				}
			}
		})
	}
}
