package marian_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bharatml/codemix/pkg/provider/translation/marian"
)

func TestLoadAndGenerate(t *testing.T) {
	t.Parallel()

	var loadBody, translateBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/load":
			if err := json.NewDecoder(r.Body).Decode(&loadBody); err != nil {
				t.Errorf("decode load body: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		case "/translate":
			if err := json.NewDecoder(r.Body).Decode(&translateBody); err != nil {
				t.Errorf("decode translate body: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]string{"translation": "मैं ठीक हूँ"})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	l, err := marian.New(srv.URL, marian.WithDevice("cuda"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h, err := l.Load(context.Background(), "Helsinki-NLP/opus-mt-en-hi")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if h.ModelID() != "Helsinki-NLP/opus-mt-en-hi" {
		t.Errorf("ModelID = %q", h.ModelID())
	}
	if loadBody["model"] != "Helsinki-NLP/opus-mt-en-hi" || loadBody["device"] != "cuda" {
		t.Errorf("load body = %v", loadBody)
	}

	out, err := h.Generate(context.Background(), "I am fine")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "मैं ठीक हूँ" {
		t.Errorf("Generate = %q", out)
	}
	if translateBody["model"] != "Helsinki-NLP/opus-mt-en-hi" || translateBody["text"] != "I am fine" {
		t.Errorf("translate body = %v", translateBody)
	}
}

func TestLoad_ServerErrorSurfaces(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	l, err := marian.New(srv.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := l.Load(context.Background(), "does-not-exist"); err == nil {
		t.Fatal("expected error for rejected model")
	}
}

func TestLoad_EmptyModelIDRejected(t *testing.T) {
	t.Parallel()
	l, err := marian.New("http://localhost:8500")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := l.Load(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty modelID")
	}
}

func TestNew_EmptyURLRejected(t *testing.T) {
	t.Parallel()
	if _, err := marian.New(""); err == nil {
		t.Fatal("expected error for empty server URL")
	}
}
