package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTextRazorClassifier_Classify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if r.PostFormValue("apiKey") != "test-key" {
			t.Errorf("expected api key forwarded, got %q", r.PostFormValue("apiKey"))
		}
		if r.PostFormValue("extractors") != "topics" {
			t.Errorf("expected topics extractor, got %q", r.PostFormValue("extractors"))
		}

		fmt.Fprint(w, `{"response":{"coarseTopics":[
			{"label":"Science","score":0.9},
			{"label":"Technology","score":0.7}
		]}}`)
	}))
	defer server.Close()

	c := NewTextRazorClassifier(server.URL, "test-key")
	scores, err := c.Classify(context.Background(), "some article text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(scores) != 2 {
		t.Fatalf("expected 2 topic scores, got %d", len(scores))
	}
	if scores[0].Topic != "Science" || scores[0].Score != 0.9 {
		t.Errorf("unexpected first score: %+v", scores[0])
	}
	if scores[1].Topic != "Technology" || scores[1].Score != 0.7 {
		t.Errorf("unexpected second score: %+v", scores[1])
	}
}

func TestTextRazorClassifier_NoTopics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{}}`)
	}))
	defer server.Close()

	c := NewTextRazorClassifier(server.URL, "test-key")
	scores, err := c.Classify(context.Background(), "unclassifiable text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("expected no scores, got %v", scores)
	}
}

func TestTextRazorClassifier_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewTextRazorClassifier(server.URL, "bad-key")
	if _, err := c.Classify(context.Background(), "text"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
