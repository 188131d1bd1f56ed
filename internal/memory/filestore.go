package memory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileStore keeps memory in a single indented JSON file.
// Top-level fields it does not know about are carried through to the next Flush.
type FileStore struct {
	*state
	path  string
	extra map[string]json.RawMessage
}

// NewFileStore creates a JSON-file backed store. The file is not read until Load.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("memory file path must be provided")
	}
	return &FileStore{state: newState(), path: path}, nil
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the backing file. A missing or empty file yields an empty
// memory; an unreadable or malformed one yields an empty memory and an
// error wrapping ErrCorrupt.
func (s *FileStore) Load() (*Memory, error) {
	s.extra = nil

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s.replace(Empty()), nil
		}
		return s.replace(Empty()), fmt.Errorf("%w: read %s: %v", ErrCorrupt, s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return s.replace(Empty()), nil
	}

	mem, extra, err := decodeFile(data)
	if err != nil {
		return s.replace(Empty()), fmt.Errorf("%w: decode %s: %v", ErrCorrupt, s.path, err)
	}

	s.extra = extra
	return s.replace(mem), nil
}

func decodeFile(data []byte) (*Memory, map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, nil, err
	}

	mem := Empty()
	if raw, ok := fields["conversations"]; ok {
		if err := json.Unmarshal(raw, &mem.Conversations); err != nil {
			return nil, nil, fmt.Errorf("conversations: %w", err)
		}
		delete(fields, "conversations")
	}
	if raw, ok := fields["user_info"]; ok {
		if err := json.Unmarshal(raw, &mem.UserInfo); err != nil {
			return nil, nil, fmt.Errorf("user_info: %w", err)
		}
		delete(fields, "user_info")
	}

	if !sort.SliceIsSorted(mem.Conversations, func(i, j int) bool {
		return mem.Conversations[i].ID < mem.Conversations[j].ID
	}) {
		sort.SliceStable(mem.Conversations, func(i, j int) bool {
			return mem.Conversations[i].ID < mem.Conversations[j].ID
		})
	}

	if len(fields) == 0 {
		fields = nil
	}
	return mem, fields, nil
}

// Flush writes the whole memory to the backing file, replacing it atomically
func (s *FileStore) Flush() error {
	mem := s.snapshot()

	doc := make(map[string]any, len(s.extra)+2)
	for k, v := range s.extra {
		doc[k] = v
	}
	doc["conversations"] = mem.Conversations
	doc["user_info"] = mem.UserInfo

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create memory directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".memory-*.json")
	if err != nil {
		return fmt.Errorf("create temp memory file: %w", err)
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("encode memory: %w", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close memory temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("persist memory: %w", err)
	}

	return nil
}

// Reset forgets everything, including unknown fields carried from the file
func (s *FileStore) Reset() {
	s.state.Reset()
	s.extra = nil
}

// Close is a no-op; the file is only open during Load and Flush
func (s *FileStore) Close() error {
	return nil
}
