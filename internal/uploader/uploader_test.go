package uploader

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTarget = Target{
	AppID:       "900012345",
	AppKey:      "abcdef123456",
	PackageName: "com.example.app",
	VersionName: "1.2.3-beta",
}

func TestRequestURL(t *testing.T) {
	got := requestURL("https://backend/upload", testTarget, "/build/outputs/mapping.txt")
	want := "https://backend/upload?app=900012345&pid=1&ver=1.2.3-beta&n=mapping.txt&key=abcdef123456&bid=com.example.app"
	assert.Equal(t, want, got)
}

func TestRequestURL_Escaping(t *testing.T) {
	target := testTarget
	target.VersionName = "1.0 (release)"

	got := requestURL("https://backend/upload", target, "/out/lib native.sym.zip")
	assert.Contains(t, got, "ver=1.0+%28release%29")
	assert.Contains(t, got, "n=lib+native.sym.zip")
}

func TestHTTP_Upload(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "mapping.txt")
	err := os.WriteFile(file, []byte("a.b.c -> x"), 0o644)
	require.NoError(t, err)

	var gotQuery, gotContentType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	up := NewHTTP(nil)
	ok := up.Upload(srv.URL, testTarget, file, ContentTypeMapping)
	assert.True(t, ok)
	assert.Equal(t, "app=900012345&pid=1&ver=1.2.3-beta&n=mapping.txt&key=abcdef123456&bid=com.example.app", gotQuery)
	assert.Equal(t, ContentTypeMapping, gotContentType)
	assert.Equal(t, []byte("a.b.c -> x"), gotBody)
}

func TestHTTP_Upload_NonOKStatus(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "lib.sym.zip")
	err := os.WriteFile(file, []byte("zip"), 0o644)
	require.NoError(t, err)

	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusInternalServerError},
		{"redirect-ish", http.StatusAccepted},
		{"unauthorized", http.StatusUnauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
			}))
			defer srv.Close()

			up := NewHTTP(nil)
			assert.False(t, up.Upload(srv.URL, testTarget, file, ContentTypeSymbol))
		})
	}
}

func TestHTTP_Upload_ConnectionError(t *testing.T) {
	tempDir := t.TempDir()
	file := filepath.Join(tempDir, "lib.sym.zip")
	err := os.WriteFile(file, []byte("zip"), 0o644)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	up := NewHTTP(nil)
	assert.False(t, up.Upload(srv.URL, testTarget, file, ContentTypeSymbol))
}

func TestHTTP_Upload_MissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected when the file cannot be read")
	}))
	defer srv.Close()

	up := NewHTTP(nil)
	assert.False(t, up.Upload(srv.URL, testTarget, filepath.Join(t.TempDir(), "gone.zip"), ContentTypeSymbol))
}
