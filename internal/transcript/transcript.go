// Package transcript loads graph-builder conversation exports and pulls out
// the content worth sending to the matching model.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lifematch-ai/matchd/internal/fault"
)

// modeGraphVectorFulltext is the retrieval mode whose answers carry the
// patient and donor records surfaced by the graph builder.
const modeGraphVectorFulltext = "graph_vector_fulltext"

// chatbotUser marks assistant turns in the exported conversation.
const chatbotUser = "chatbot"

// Conversation is the exported graph-builder conversation shape.
type Conversation struct {
	Messages []Message `json:"conversation"`
}

type Message struct {
	User  string          `json:"user"`
	Modes map[string]Mode `json:"modes,omitempty"`
}

type Mode struct {
	Message string `json:"message"`
}

// Load reads and parses a conversation export from disk.
func Load(path string) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fault.New(fault.KindNotFound, fmt.Sprintf("conversation file not found: %s", path))
		}
		return nil, fault.Wrap(fault.KindIO, fmt.Sprintf("read conversation %s", path), err)
	}

	var conv Conversation
	if err := json.Unmarshal(data, &conv); err != nil {
		return nil, fault.Wrap(fault.KindInvalidInput, fmt.Sprintf("parse conversation %s", path), err)
	}

	return &conv, nil
}

// RelevantContent concatenates the fulltext-mode answers from chatbot turns,
// in conversation order, one per line. Turns without the mode (or with an
// empty message) are skipped; zero matches yields an empty string.
func RelevantContent(conv *Conversation) string {
	var sb strings.Builder
	for _, msg := range conv.Messages {
		if msg.User != chatbotUser || msg.Modes == nil {
			continue
		}
		if content := msg.Modes[modeGraphVectorFulltext].Message; content != "" {
			sb.WriteString(content)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
