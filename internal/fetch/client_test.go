package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func testServerSequence(t *testing.T, statuses []int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var idx int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/train.csv" {
			http.NotFound(w, r)
			return
		}
		i := int(atomic.AddInt32(&idx, 1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		w.WriteHeader(statuses[i])
		if statuses[i] == http.StatusOK {
			_, _ = w.Write([]byte(body))
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &idx
}

func fastClient() *Client {
	return NewClient(5*time.Second, 3, time.Millisecond, 5*time.Millisecond)
}

func TestDownloadRetriesThenSucceeds(t *testing.T) {
	body := "Pclass,Survived\n1,1\n"
	srv, calls := testServerSequence(t, []int{503, 503, 200}, body)
	dir := filepath.Join(t.TempDir(), "data")

	got, err := fastClient().Download(context.Background(), srv.URL+"/data/train.csv", dir)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if got != filepath.Join(dir, "train.csv") {
		t.Fatalf("unexpected path %s", got)
	}
	b, err := os.ReadFile(got)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != body {
		t.Fatalf("unexpected body %q", b)
	}
	if n := atomic.LoadInt32(calls); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
}

func TestDownloadGivesUpAfterMaxAttempts(t *testing.T) {
	srv, calls := testServerSequence(t, []int{500}, "")
	dir := t.TempDir()

	_, err := fastClient().Download(context.Background(), srv.URL+"/data/train.csv", dir)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.StatusCode != 500 {
		t.Fatalf("unexpected status %d", se.StatusCode)
	}
	if n := atomic.LoadInt32(calls); n != 3 {
		t.Fatalf("expected 3 calls, got %d", n)
	}
	if _, err := os.Stat(filepath.Join(dir, "train.csv")); !os.IsNotExist(err) {
		t.Fatalf("no file should be written: %v", err)
	}
}

func TestDownloadDoesNotRetryNotFound(t *testing.T) {
	srv, calls := testServerSequence(t, []int{404, 200}, "x")
	_, err := fastClient().Download(context.Background(), srv.URL+"/data/train.csv", t.TempDir())
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 StatusError, got %v", err)
	}
	if n := atomic.LoadInt32(calls); n != 1 {
		t.Fatalf("expected 1 call, got %d", n)
	}
}

func TestDownloadHonoursCancellation(t *testing.T) {
	srv, _ := testServerSequence(t, []int{503}, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(time.Second, 5, time.Second, time.Second).Download(ctx, srv.URL+"/data/train.csv", t.TempDir())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	name, err := FileName("https://example.com/datasets/titanic/train.csv?raw=1")
	if err != nil || name != "train.csv" {
		t.Fatalf("got %q, %v", name, err)
	}
	for _, bad := range []string{"ftp://example.com/a.csv", "https://example.com/", "::"} {
		if _, err := FileName(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseRetryAfterSeconds(t *testing.T) {
	if s, err := parseRetryAfterSeconds("3"); err != nil || s != 3 {
		t.Fatalf("got %d, %v", s, err)
	}
	if _, err := parseRetryAfterSeconds("soon"); err == nil {
		t.Fatalf("expected error")
	}
}
