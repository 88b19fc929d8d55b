package instapaper

import (
	"encoding/json"
	"fmt"
)

// Tokens is an xAuth access token pair. Persisted to config so later runs
// skip the credential exchange.
type Tokens struct {
	Token       string `json:"token" yaml:"token"`
	TokenSecret string `json:"token_secret" yaml:"token_secret"`
}

// User is the account object returned by account/verify_credentials.
type User struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Bookmark is a bookmark object as returned by the bookmarks endpoints.
type Bookmark struct {
	Type              string  `json:"type"`
	BookmarkID        int64   `json:"bookmark_id"`
	URL               string  `json:"url"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Hash              string  `json:"hash"`
	Time              int64   `json:"time"`
	Progress          float64 `json:"progress"`
	ProgressTimestamp int64   `json:"progress_timestamp"`
	Starred           string  `json:"starred"`
	PrivateSource     string  `json:"private_source"`
}

// Folder is a folder object as returned by folders/list.
type Folder struct {
	Type     string `json:"type"`
	FolderID int64  `json:"folder_id"`
	Title    string `json:"title"`
	Position int64  `json:"position"`
}

// Highlight is a highlight object.
type Highlight struct {
	Type        string `json:"type"`
	HighlightID int64  `json:"highlight_id"`
	BookmarkID  int64  `json:"bookmark_id"`
	Text        string `json:"text"`
	Position    int64  `json:"position"`
	Time        int64  `json:"time"`
}

// decodeObjects splits a mixed-type response list ({"type": "meta"},
// {"type": "user"}, {"type": "bookmark"}, ...) into raw objects keyed by
// their type tag.
func decodeObjects(body []byte) ([]typedObject, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, err
	}
	objects := make([]typedObject, 0, len(raws))
	for _, raw := range raws {
		var tag struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &tag); err != nil {
			return nil, err
		}
		objects = append(objects, typedObject{Type: tag.Type, Raw: raw})
	}
	return objects, nil
}

type typedObject struct {
	Type string
	Raw  json.RawMessage
}

// unmarshalFirst decodes the first object of the given type into dst.
// Returns an error when no such object exists.
func unmarshalFirst(objects []typedObject, typ string, dst any) error {
	for _, obj := range objects {
		if obj.Type == typ {
			return json.Unmarshal(obj.Raw, dst)
		}
	}
	return fmt.Errorf("no %s object in response", typ)
}

// unmarshalAll decodes every object of the given type.
func unmarshalAll[T any](objects []typedObject, typ string) ([]T, error) {
	var out []T
	for _, obj := range objects {
		if obj.Type != typ {
			continue
		}
		var item T
		if err := json.Unmarshal(obj.Raw, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}
