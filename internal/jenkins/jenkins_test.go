package jenkins

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConsoleText_Success(t *testing.T) {
	var gotPath string
	var gotUser, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotUser, gotToken, _ = r.BasicAuth()
		w.Write([]byte("Started by user release-bot\nFinished: SUCCESS\n"))
	}))
	defer srv.Close()

	c := New(srv.URL, "jenkins-user", "api-token")
	text, err := c.ConsoleText(context.Background(), "release-openjdk21-pipeline", 48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/job/release-openjdk21-pipeline/48/consoleText" {
		t.Errorf("path = %q", gotPath)
	}
	if gotUser != "jenkins-user" || gotToken != "api-token" {
		t.Errorf("auth = %q/%q", gotUser, gotToken)
	}
	if !strings.Contains(text, "Finished: SUCCESS") {
		t.Errorf("console text = %q", text)
	}
}

func TestConsoleText_FolderPipeline(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte("console"))
	}))
	defer srv.Close()

	c := New(srv.URL, "anonymous", "tok")
	if _, err := c.ConsoleText(context.Background(), "build-scripts/release-openjdk21-pipeline", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Folder segments stay separate path elements.
	if gotPath != "/job/build-scripts/release-openjdk21-pipeline/7/consoleText" {
		t.Errorf("path = %q", gotPath)
	}
}

func TestConsoleText_EscapesSegments(t *testing.T) {
	got := consolePath("folder/my pipeline", 3)
	if got != "/job/folder/my%20pipeline/3/consoleText" {
		t.Errorf("consolePath = %q", got)
	}
}

func TestConsoleText_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer srv.Close()

	c := New(srv.URL, "user", "bad-token")
	_, err := c.ConsoleText(context.Background(), "p", 1)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "authentication failed") {
		t.Errorf("error = %v, want authentication failure message", err)
	}
}

func TestConsoleText_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer srv.Close()

	c := New(srv.URL, "user", "tok")
	_, err := c.ConsoleText(context.Background(), "missing-pipeline", 999)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "missing-pipeline") || !strings.Contains(err.Error(), "999") {
		t.Errorf("error = %v, want pipeline and run number named", err)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "//") {
			t.Errorf("double slash in request path: %q", r.URL.Path)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "user", "tok")
	if _, err := c.ConsoleText(context.Background(), "p", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
