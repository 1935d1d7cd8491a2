package vertexai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"
)

func TestEmbedder_EmbedQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(req.Instances) != 1 || req.Instances[0].TaskType != "RETRIEVAL_QUERY" {
			t.Errorf("unexpected instances %+v", req.Instances)
		}
		_, _ = w.Write([]byte(`{"predictions":[{"embeddings":{"values":[0.1,0.2,0.3]}}]}`))
	}))
	defer srv.Close()

	e := NewEmbedder("project", "", "", nil)
	e.endpointURL = srv.URL
	e.tokenSource = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
	vec, err := e.EmbedQuery(context.Background(), "pyramids")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	if len(vec) != 3 {
		t.Fatalf("unexpected vector %v", vec)
	}
}

func TestEmbedder_MissingProject(t *testing.T) {
	e := NewEmbedder("", "", "", nil)
	if _, err := e.EmbedQuery(context.Background(), "x"); err == nil {
		t.Fatalf("expected error without project id")
	}
}
