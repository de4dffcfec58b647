package pagination

import (
	"encoding/base64"
	"encoding/json"
)

// Pagination carries the cursor parameters bound from list query strings.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=50" validate:"gte=1,lte=250"` // Min 1, Max 250
}

// Cursor is the decoded form of a page token. Tokens are opaque to clients.
type Cursor struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(cursor Cursor) (string, error) {
	raw, err := json.Marshal(cursor)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeCursor(token string) (*Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(raw, &cursor); err != nil {
		return nil, err
	}
	return &cursor, nil
}

// BuildCursorPageInfo derives page info from a result fetched with limit+1
// rows. The extra row, when present, proves there is another page; the token
// is cut from the last row the client will actually see.
func BuildCursorPageInfo[T any](rows []*T, limit int, extractCursor func(*T) string) *PageInfo {
	if len(rows) == 0 {
		return &PageInfo{HasMore: false}
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	return &PageInfo{
		HasMore:       hasMore,
		NextPageToken: extractCursor(rows[len(rows)-1]),
	}
}
