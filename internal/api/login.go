package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/julianstephens/shiftdesk/internal/credentials"
	"github.com/julianstephens/shiftdesk/internal/models"
)

// BodyKind tags the shape a login response arrived in.
type BodyKind int

const (
	// BodyObject is a JSON object, either typed as JSON or sent as text.
	BodyObject BodyKind = iota
	// BodyQuotedString is a JSON-encoded string, typed as JSON or sent as text.
	BodyQuotedString
	// BodyPlainText is any other text body, taken as the token itself.
	BodyPlainText
	// BodyOther is a JSON value that is neither an object nor a string.
	BodyOther
)

// LoginBody is a decoded login response.
type LoginBody struct {
	Kind   BodyKind
	Fields map[string]any
	Text   string
}

// DecodeLoginBody classifies raw according to its content type. A body
// declared as JSON must parse; a text body that merely looks like an object
// falls back to plain text when it does not.
func DecodeLoginBody(contentType string, raw []byte) (LoginBody, error) {
	if strings.Contains(strings.ToLower(contentType), "application/json") {
		var v any
		if err := decodeJSON(bytes.NewReader(raw), &v); err != nil {
			return LoginBody{}, &ResponseError{Resource: "login", Err: err}
		}
		switch v := v.(type) {
		case map[string]any:
			return LoginBody{Kind: BodyObject, Fields: v}, nil
		case string:
			if strings.HasPrefix(strings.TrimSpace(v), "{") {
				return textBody(v), nil
			}
			return LoginBody{Kind: BodyQuotedString, Text: v}, nil
		default:
			return LoginBody{Kind: BodyOther}, nil
		}
	}
	return textBody(string(raw)), nil
}

// textBody handles a body read as text, including a JSON value decoded to a string.
func textBody(s string) LoginBody {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "{") {
		var fields map[string]any
		if err := decodeJSON(strings.NewReader(trimmed), &fields); err == nil {
			return LoginBody{Kind: BodyObject, Fields: fields}
		}
		return LoginBody{Kind: BodyPlainText, Text: trimmed}
	}
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		return LoginBody{Kind: BodyQuotedString, Text: trimmed}
	}
	return LoginBody{Kind: BodyPlainText, Text: trimmed}
}

// decodeJSON reads exactly one JSON value from r, keeping numbers as
// json.Number. Anything after the value is an error.
func decodeJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

// Credential extracts the token and optional role. accessToken wins over
// token; a missing or null field falls through to the next one.
func (b LoginBody) Credential() (models.Credential, error) {
	var cred models.Credential
	switch b.Kind {
	case BodyObject:
		raw, ok := b.Fields["accessToken"]
		if !ok || raw == nil {
			raw = b.Fields["token"]
		}
		cred.Token = strings.TrimSpace(scalarString(raw))
		if role, ok := b.Fields["role"]; ok {
			cred.Role = strings.TrimSpace(scalarString(role))
		}
	case BodyQuotedString, BodyPlainText:
		cred.Token = credentials.StripQuotes(strings.TrimSpace(b.Text))
	case BodyOther:
	default:
		return cred, fmt.Errorf("unknown login body kind %d", b.Kind)
	}
	if cred.Token == "" {
		return cred, ErrMissingToken
	}
	return cred, nil
}

func scalarString(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
