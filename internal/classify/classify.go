// Package classify assigns diagram node types (client, server, storage,
// external) using an LLM over the node labels. Classification is purely
// cosmetic: every failure mode degrades to "default" so the dashboard never
// blocks on a model call.
package classify

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// validTypes is the closed vocabulary the model must pick from.
var validTypes = map[string]bool{
	"client":   true,
	"server":   true,
	"storage":  true,
	"external": true,
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Client is the subset of the chat API the classifier needs. Injected in
// tests.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Classifier labels diagram nodes, caching per feature so unchanged
// diagrams never re-trigger a model call.
type Classifier struct {
	Model   string
	Timeout time.Duration
	API     Client

	mu    sync.Mutex
	cache map[string]map[string]string
}

// New returns a Classifier backed by the given API client. A nil client
// disables classification; every label maps to "default".
func New(api Client, model string, timeout time.Duration) *Classifier {
	return &Classifier{
		Model:   model,
		Timeout: timeout,
		API:     api,
		cache:   make(map[string]map[string]string),
	}
}

// Classify maps each label to a node type. Unclassifiable labels map to
// "default". Results are cached under the feature id plus a digest of the
// label set.
func (c *Classifier) Classify(ctx context.Context, featureID string, labels []string) map[string]string {
	result := make(map[string]string, len(labels))
	for _, l := range labels {
		result[l] = "default"
	}
	if c.API == nil || len(labels) == 0 {
		return result
	}

	key := cacheKey(featureID, labels)
	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return cached
	}
	c.mu.Unlock()

	c.ask(ctx, labels, result)

	c.mu.Lock()
	c.cache[key] = result
	c.mu.Unlock()
	return result
}

// Invalidate drops every cached classification for a feature.
func (c *Classifier) Invalidate(featureID string) {
	prefix := featureID + ":"
	c.mu.Lock()
	for key := range c.cache {
		if strings.HasPrefix(key, prefix) {
			delete(c.cache, key)
		}
	}
	c.mu.Unlock()
}

func (c *Classifier) ask(ctx context.Context, labels []string, result map[string]string) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	labelsJSON, err := json.Marshal(labels)
	if err != nil {
		return
	}
	prompt := fmt.Sprintf(`Classify each of these software architecture diagram component labels into exactly one category: "client", "server", "storage", or "external".

Labels: %s

Respond with ONLY a JSON object mapping each label to its category. Example: {"Browser": "client", "API Server": "server"}
No explanation, just the JSON.`, labelsJSON)

	resp, err := c.API.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.Model,
		MaxTokens: 256,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil || len(resp.Choices) == 0 {
		return
	}

	raw := jsonObjectPattern.FindString(resp.Choices[0].Message.Content)
	if raw == "" {
		return
	}
	var parsed map[string]string
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return
	}
	for label, kind := range parsed {
		if _, known := result[label]; known && validTypes[kind] {
			result[label] = kind
		}
	}
}

func cacheKey(featureID string, labels []string) string {
	sum := sha256.Sum256([]byte(strings.Join(labels, "\x00")))
	return featureID + ":" + hex.EncodeToString(sum[:])[:16]
}
