package worker

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/robertcrowe/arrg/a2a"
)

// ExtractJSON pulls the first complete JSON object out of model output.
// Code-fenced blocks are tried first, then the raw text. Returns false
// when no parseable object is found.
func ExtractJSON(s string) (json.RawMessage, bool) {
	for _, block := range fencedBlocks(s) {
		if obj, ok := firstObject(block); ok {
			return obj, true
		}
	}
	return firstObject(s)
}

// ParseInto extracts a JSON object from model output and unmarshals it
// into v. Returns false when extraction or unmarshaling fails.
func ParseInto(s string, v any) bool {
	obj, ok := ExtractJSON(s)
	if !ok {
		return false
	}
	return json.Unmarshal(obj, v) == nil
}

// fencedBlocks returns the contents of all ``` code fences, including an
// unterminated trailing fence.
func fencedBlocks(s string) []string {
	var blocks []string
	for {
		start := strings.Index(s, "```")
		if start < 0 {
			return blocks
		}
		rest := s[start+3:]
		nl := strings.IndexByte(rest, '\n')
		if nl < 0 {
			return blocks
		}
		rest = rest[nl+1:]
		end := strings.Index(rest, "```")
		if end < 0 {
			return append(blocks, rest)
		}
		blocks = append(blocks, rest[:end])
		s = rest[end+3:]
	}
}

// firstObject scans for the first balanced top-level JSON object,
// tracking string literals and escapes so braces inside strings do not
// count.
func firstObject(s string) (json.RawMessage, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return nil, false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '{':
			depth++
		case !inString && c == '}':
			depth--
			if depth == 0 {
				candidate := s[start : i+1]
				if json.Valid([]byte(candidate)) {
					return json.RawMessage(candidate), true
				}
				return nil, false
			}
		}
	}
	return nil, false
}

// decodeData unmarshals the message's DataPart payload into v. Messages
// without a data part leave v untouched.
func decodeData(msg a2a.Message, v any) error {
	data := msg.Data()
	if data == nil {
		return nil
	}
	return decodeAny(data, v)
}

// DecodeArtifact unmarshals an artifact's DataPart payload into v.
func DecodeArtifact(a a2a.Artifact, v any) error {
	data := a.Data()
	if data == nil {
		return errors.New("artifact has no data part")
	}
	return decodeAny(data, v)
}

// decodeAny round-trips an in-memory payload through JSON so both typed
// structs and generic maps decode into the target type.
func decodeAny(data, v any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
