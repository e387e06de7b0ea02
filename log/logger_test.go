package log

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"bogus", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWith_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("info")
	defer SetOutput(&bytes.Buffer{})

	l := With("importer")
	l.Info().Str("project", "demo").Msg("import started")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["component"] != "importer" {
		t.Errorf("component = %v, want importer", entry["component"])
	}
	if entry["project"] != "demo" {
		t.Errorf("project = %v, want demo", entry["project"])
	}
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestStdErrorLogger_WritesWarn(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("info")
	defer SetOutput(&bytes.Buffer{})

	StdErrorLogger().Print("http: TLS handshake error")

	entry := decodeLine(t, &buf)
	if entry["level"] != "warn" {
		t.Errorf("level = %v, want warn", entry["level"])
	}
	if entry["message"] != "http: TLS handshake error" {
		t.Errorf("message = %v", entry["message"])
	}
}

func TestStdErrorLogger_FollowsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel("error")
	defer func() {
		SetOutput(&bytes.Buffer{})
		SetLevel("info")
	}()

	StdErrorLogger().Print("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected no output below the level, got %q", buf.String())
	}
}

func TestGinLogger_StatusLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		status int
		want   string
	}{
		{http.StatusOK, "info"},
		{http.StatusBadRequest, "warn"},
		{http.StatusInternalServerError, "error"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		SetOutput(&buf)
		SetLevel("info")

		r := gin.New()
		r.Use(GinLogger())
		r.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?a=1", nil))

		entry := decodeLine(t, &buf)
		if entry["level"] != tt.want {
			t.Errorf("status %d: level = %v, want %s", tt.status, entry["level"], tt.want)
		}
		if entry["path"] != "/x?a=1" {
			t.Errorf("status %d: path = %v", tt.status, entry["path"])
		}
		if entry["status"] != float64(tt.status) {
			t.Errorf("status = %v, want %d", entry["status"], tt.status)
		}
	}
	SetOutput(&bytes.Buffer{})
}
