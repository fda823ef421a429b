// openai-stub is a tiny OpenAI-compatible server for manual runs and demos.
// It answers /v1/models and /v1/chat/completions with a canned guide so the
// CLI can be exercised without a real model. Deliberately stdlib-only so it
// builds and runs standalone.
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "test-model"
	}
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		sys := ""
		if len(req.Messages) > 0 {
			sys = strings.TrimSpace(req.Messages[0].Content)
		}
		if !strings.Contains(sys, "travel writer") {
			http.Error(w, "unexpected system", http.StatusBadRequest)
			return
		}
		// Echo the destination back when we can find it in the user message.
		dest := "Somewhere"
		if len(req.Messages) >= 2 {
			user := req.Messages[1].Content
			if _, rest, ok := strings.Cut(user, "travel guide for "); ok {
				if head, _, ok := strings.Cut(rest, " from the following"); ok {
					dest = strings.TrimSpace(head)
				}
			}
		}
		payload := map[string]string{
			"overview":        dest + " is a fine place to visit.",
			"attractions":     "1. The Old Tower. 2. The Harbour.",
			"transportation":  "Metro and trams cover the centre.",
			"food_and_dining": "Cafes near the market square.",
			"tips":            "Carry small change and mind the weather.",
		}
		content, _ := json.Marshal(payload)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": string(content)}},
			},
		})
	})

	log.Printf("openai-stub listening on %s (model=%s)", addr, model)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
