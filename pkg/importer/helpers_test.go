package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/hazyhaar/cadop-search/pkg/dataset"
)

func TestDownloadFile(t *testing.T) {
	content := "hello world"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(content))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "test.txt")
	if err := downloadFile(context.Background(), ts.URL, dest); err != nil {
		t.Fatalf("downloadFile: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != content {
		t.Errorf("content = %q, want %q", string(data), content)
	}
}

func TestDownloadFile_Retry(t *testing.T) {
	attempts := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "retry.txt")
	if err := downloadFile(context.Background(), ts.URL, dest); err != nil {
		t.Fatalf("downloadFile with retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestDownloadFile_AllFail(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	dest := filepath.Join(t.TempDir(), "fail.txt")
	err := downloadFile(context.Background(), ts.URL, dest)
	if err == nil {
		t.Error("expected error after all retries exhausted")
	}
}

func TestInstallFile(t *testing.T) {
	dir := t.TempDir()
	dest := dataset.SourceSpec{Path: filepath.Join(dir, "Relatorio_cadop.csv"), Encoding: "utf-8"}
	if err := os.WriteFile(dest.Path, []byte("nome\nold\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tmp := dest.Path + ".download"
	if err := os.WriteFile(tmp, []byte("nome;cidade\nA;X\nB;Y\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	rows, err := installFile(tmp, dest)
	if err != nil {
		t.Fatalf("installFile: %v", err)
	}
	if rows != 2 {
		t.Errorf("rows = %d, want 2", rows)
	}
	if _, err := os.Stat(tmp); !os.IsNotExist(err) {
		t.Error("temp file should have been renamed")
	}
	data, _ := os.ReadFile(dest.Path)
	if string(data) != "nome;cidade\nA;X\nB;Y\n" {
		t.Errorf("dest not replaced: %q", data)
	}
}

func TestInstallFile_RejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	dest := dataset.SourceSpec{Path: filepath.Join(dir, "Relatorio_cadop.csv"), Encoding: "utf-8"}
	if err := os.WriteFile(dest.Path, []byte("nome\nkeep\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for name, content := range map[string]string{
		"header only": "nome;cidade\n",
		"empty":       "",
	} {
		t.Run(name, func(t *testing.T) {
			tmp := dest.Path + ".download"
			if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := installFile(tmp, dest); err == nil {
				t.Fatal("expected validation error")
			}
			data, _ := os.ReadFile(dest.Path)
			if string(data) != "nome\nkeep\n" {
				t.Errorf("dest must be left untouched, got %q", data)
			}
		})
	}
}

func TestProvenance_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Relatorio_cadop.csv")
	p := &Provenance{Adapter: CadopID, SourceURL: "https://example.com/x.csv", License: "ODbL", Rows: 7}

	if err := writeProvenance(path, p); err != nil {
		t.Fatalf("writeProvenance: %v", err)
	}
	got, err := ReadProvenance(path)
	if err != nil {
		t.Fatalf("ReadProvenance: %v", err)
	}
	if got.Adapter != CadopID || got.Rows != 7 || got.SourceURL != p.SourceURL {
		t.Errorf("provenance = %+v", got)
	}
}
