package scaledown

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCompressDisabledFallsBack(t *testing.T) {
	client := New("", "", nil)
	if client.Enabled() {
		t.Fatal("Enabled() = true without configuration")
	}

	result, err := client.Compress(context.Background(), "ctx", "keep this prompt")
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if !result.Fallback {
		t.Error("Fallback = false for a disabled client")
	}
	if result.Content != "keep this prompt" {
		t.Errorf("Content = %q, want original prompt", result.Content)
	}
	if result.OriginalTokens != 3 || result.CompressedTokens != 3 {
		t.Errorf("tokens = %d/%d, want whitespace estimate 3/3", result.OriginalTokens, result.CompressedTokens)
	}
	if result.TokensSaved != 0 || result.Ratio != 0 {
		t.Errorf("TokensSaved = %d, Ratio = %v, want 0 for an uncompressed prompt", result.TokensSaved, result.Ratio)
	}

	stats := client.Stats()
	if stats.Requests != 1 || stats.Fallbacks != 1 {
		t.Errorf("Stats = %+v, want one request, one fallback", stats)
	}
}

func TestCompressRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/compress" {
			t.Errorf("path = %s, want /compress", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write([]byte(`{"content":"short","original_tokens":70,"compressed_tokens":28,"compression_ratio":0.4}`)); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	defer srv.Close()

	client := New(srv.URL, "secret", nil)
	result, err := client.Compress(context.Background(), "scheduling", "a very long prompt")
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if result.Fallback {
		t.Error("Fallback = true for a successful remote call")
	}
	if result.Content != "short" {
		t.Errorf("Content = %q, want short", result.Content)
	}
	if result.OriginalTokens != 70 || result.CompressedTokens != 28 {
		t.Errorf("tokens = %d/%d, want 70/28", result.OriginalTokens, result.CompressedTokens)
	}
	if result.TokensSaved != 42 {
		t.Errorf("TokensSaved = %d, want original minus compressed 42", result.TokensSaved)
	}

	stats := client.Stats()
	if stats.TokensSaved != 42 {
		t.Errorf("Stats.TokensSaved = %d, want 42", stats.TokensSaved)
	}
}

func TestCompressServerErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer srv.Close()

	client := New(srv.URL, "secret", nil)
	result, err := client.Compress(context.Background(), "ctx", "prompt")
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	if !result.Fallback || result.Content != "prompt" {
		t.Errorf("result = %+v, want identity fallback", result)
	}
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "quarterly planning sync", "quarterly planning sync"},
		{"html converted", "<p>Hello <strong>world</strong></p>", "Hello **world**"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDescription(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("one two  three"); got != 3 {
		t.Errorf("EstimateTokens() = %d, want 3", got)
	}
}
