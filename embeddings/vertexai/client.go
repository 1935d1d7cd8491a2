package vertexai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	defaultLocation   = "us-central1"
	defaultModel      = "text-embedding-004"
	defaultHTTPTO     = 30 * time.Second
	defaultScopeCloud = "https://www.googleapis.com/auth/cloud-platform"
	// maxInstances is the per-request instance limit of the predict endpoint.
	maxInstances = 250
)

type predictRequest struct {
	Instances []predictInstance `json:"instances"`
}

type predictInstance struct {
	Content  string `json:"content"`
	TaskType string `json:"task_type,omitempty"`
}

type predictResponse struct {
	Predictions []struct {
		Embeddings struct {
			Values []float32 `json:"values"`
		} `json:"embeddings"`
	} `json:"predictions"`
}

// Embedder calls the Vertex AI text embedding predict endpoint. The token
// source is created lazily on first use.
type Embedder struct {
	ProjectID string
	Location  string
	Model     string
	Scopes    []string

	httpClient  *http.Client
	endpointURL string

	mu          sync.Mutex
	tokenSource oauth2.TokenSource
	initErr     error
}

// NewEmbedder creates a Vertex AI embedder; empty location, model and scopes use defaults.
func NewEmbedder(projectID, model, location string, scopes []string) *Embedder {
	if location == "" {
		location = defaultLocation
	}
	if model == "" {
		model = defaultModel
	}
	if len(scopes) == 0 {
		scopes = []string{defaultScopeCloud}
	}
	return &Embedder{
		ProjectID:  projectID,
		Location:   location,
		Model:      model,
		Scopes:     scopes,
		httpClient: &http.Client{Timeout: defaultHTTPTO},
	}
}

func (e *Embedder) endpoint() string {
	if e.endpointURL != "" {
		return e.endpointURL
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		e.Location, e.ProjectID, e.Location, e.Model)
}

func (e *Embedder) token(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.tokenSource == nil && e.initErr == nil {
		if e.ProjectID == "" {
			e.initErr = fmt.Errorf("vertexai project id is required")
		} else if ts, err := google.DefaultTokenSource(ctx, e.Scopes...); err != nil {
			e.initErr = fmt.Errorf("vertexai token source: %w", err)
		} else {
			e.tokenSource = ts
		}
	}
	if e.initErr != nil {
		return "", e.initErr
	}
	tok, err := e.tokenSource.Token()
	if err != nil {
		return "", fmt.Errorf("vertexai token: %w", err)
	}
	return tok.AccessToken, nil
}

func (e *Embedder) EmbedDocuments(ctx context.Context, docs []string) ([][]float32, error) {
	out := make([][]float32, 0, len(docs))
	for start := 0; start < len(docs); start += maxInstances {
		end := start + maxInstances
		if end > len(docs) {
			end = len(docs)
		}
		vecs, err := e.predict(ctx, docs[start:end], "RETRIEVAL_DOCUMENT")
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.predict(ctx, []string{text}, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for 1 query", len(vecs))
	}
	return vecs[0], nil
}

func (e *Embedder) predict(ctx context.Context, texts []string, task string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no input texts provided")
	}
	instances := make([]predictInstance, 0, len(texts))
	for _, t := range texts {
		instances = append(instances, predictInstance{Content: t, TaskType: task})
	}
	body, err := json.Marshal(predictRequest{Instances: instances})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	token, err := e.token(ctx)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vertexai API error: %s", strings.TrimSpace(string(data)))
	}
	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	vecs := make([][]float32, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		vecs = append(vecs, p.Embeddings.Values)
	}
	return vecs, nil
}
