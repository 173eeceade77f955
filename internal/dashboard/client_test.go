package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smart-resume/internal/resume"
)

func TestClient_Upload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":    "success",
			"message":   "Resume parsed & scored successfully",
			"export_id": "abc",
			"downloads": map[string]string{"json": "/download/json/abc", "csv": "/download/csv/abc"},
			"data":      map[string]any{"name": "Ann"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL + "/")
	resp, err := client.Upload(context.Background(), "cv.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.ExportID)
	assert.Equal(t, "/download/csv/abc", resp.Downloads["csv"])
	assert.Equal(t, "Ann", resume.String(resp.Record().Profile.Name))
}

func TestClient_UploadBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail":"Only PDF or DOCX supported.","code":"unsupported_type"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Upload(context.Background(), "cv.txt", strings.NewReader("hi"))
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Only PDF or DOCX supported.", apiErr.Detail)
	assert.Contains(t, err.Error(), "400")
}

func TestClient_DownloadAndPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ping":
			_, _ = w.Write([]byte(`{"message":"pong"}`))
		case "/download/csv/abc":
			_, _ = w.Write([]byte("name,Ann\r\n"))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"CSV not found","code":"not_found"}`))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	require.NoError(t, client.Ping(context.Background()))

	var buf bytes.Buffer
	require.NoError(t, client.Download(context.Background(), "/download/csv/abc", &buf))
	assert.Equal(t, "name,Ann\r\n", buf.String())

	err := client.Download(context.Background(), "/download/csv/missing", io.Discard)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "CSV not found", apiErr.Detail)
}

func TestClient_URL(t *testing.T) {
	client := NewClient("")
	assert.Equal(t, DefaultAPIURL+"/ping", client.URL("/ping"))
	assert.Equal(t, "https://cdn.example/x.csv", client.URL("https://cdn.example/x.csv"))
	assert.Equal(t, "http://api.test/download/json/a", NewClient(" http://api.test/ ").URL("download/json/a"))
}
