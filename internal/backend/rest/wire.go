package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"taskdeck/internal/task"
)

// flexString accepts a JSON string or a bare number.
// Remote stores disagree on whether IDs and timestamps are quoted.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = flexString(n.String())
	return nil
}

type wireTask struct {
	ID        flexString `json:"id"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	Status    string     `json:"status"`
	CreatedAt flexString `json:"createdAt"`
	UpdatedAt flexString `json:"updatedAt"`
}

func (w wireTask) toTask() task.Task {
	return task.Task{
		ID:        strings.TrimSpace(string(w.ID)),
		Title:     w.Title,
		Summary:   w.Summary,
		Status:    task.ParseStatus(w.Status),
		CreatedAt: string(w.CreatedAt),
		UpdatedAt: string(w.UpdatedAt),
	}
}

// Request bodies.
type createBody struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Status  string `json:"status"`
}

type updateBody struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type statusBody struct {
	Status string `json:"status"`
}

// envelope is the response wrapper: {"item": {...}} or {"items": [...]}.
type envelope struct {
	Item  json.RawMessage `json:"item"`
	Items json.RawMessage `json:"items"`
}

// decodeItem reads one task from a response body. An unwrapped task object
// is accepted too.
func decodeItem(body []byte) (task.Task, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return task.Task{}, err
	}
	raw := []byte(env.Item)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = body
	}
	var w wireTask
	if err := json.Unmarshal(raw, &w); err != nil {
		return task.Task{}, err
	}
	return w.toTask(), nil
}

// decodeItems reads a task list from a response body. A bare JSON array is
// accepted too.
func decodeItems(body []byte) ([]task.Task, error) {
	trimmed := bytes.TrimSpace(body)
	raw := trimmed
	if len(trimmed) == 0 || trimmed[0] != '[' {
		var env envelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, err
		}
		raw = env.Items
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []task.Task{}, nil
	}
	var ws []wireTask
	if err := json.Unmarshal(raw, &ws); err != nil {
		return nil, err
	}
	out := make([]task.Task, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toTask())
	}
	return out, nil
}

// errorMessage extracts a human-readable reason from an error body.
func errorMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	msg := strings.TrimSpace(strings.ToValidUTF8(string(body), "\uFFFD"))
	if r := []rune(msg); len(r) > maxMessageRunes {
		msg = string(r[:maxMessageRunes])
	}
	return msg
}

// maxMessageRunes caps a raw error body quoted in an error message.
const maxMessageRunes = 200
