package query

import (
	"encoding/base64"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cybernft/marketplace-sdk/core/types"
)

// Cursor marks a resumable position in a query's result set. It encodes the
// offset and the snapshot version it was minted against, so a cursor from a
// superseded snapshot is detected instead of silently clamped.
type Cursor struct {
	Offset          int       `json:"offset"`
	SnapshotVersion uuid.UUID `json:"snapshot_version"`
}

// Encode renders the cursor as an opaque URL-safe token.
func (c Cursor) Encode() string {
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeCursor parses a token produced by Encode. Garbage fails with
// types.ErrInvalidQuery.
func DecodeCursor(token string) (Cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, errors.Wrap(types.ErrInvalidQuery, "undecodable cursor")
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return Cursor{}, errors.Wrap(types.ErrInvalidQuery, "undecodable cursor")
	}
	if c.Offset < 0 {
		return Cursor{}, errors.Wrapf(types.ErrInvalidQuery, "cursor offset must be non-negative, got %d", c.Offset)
	}
	return c, nil
}
