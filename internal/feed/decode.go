package feed

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Shym0608/News-Panel/internal/models"
)

// Shape is the kind of body a feed endpoint answered with.
type Shape int

const (
	ShapeUnknown Shape = iota
	ShapeList          // [item, ...]
	ShapePage          // {"content": [item, ...], ...}
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapePage:
		return "page"
	default:
		return "unknown"
	}
}

// Response is the decoded body of a feed endpoint.
type Response struct {
	Shape Shape
	Items []models.NewsItem
}

type pageBody struct {
	Content json.RawMessage `json:"content"`
}

// decodeFeed classifies and decodes a feed body. It fails with ErrBadShape
// for invalid JSON, for scalars and for objects without a "content" array.
func decodeFeed(body []byte) (Response, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return Response{}, fmt.Errorf("%w: empty body", ErrBadShape)
	}

	switch trimmed[0] {
	case '[':
		items, err := decodeItems(trimmed)
		if err != nil {
			return Response{}, err
		}
		return Response{Shape: ShapeList, Items: items}, nil
	case '{':
		var page pageBody
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return Response{}, fmt.Errorf("%w: %v", ErrBadShape, err)
		}
		content := bytes.TrimSpace(page.Content)
		if len(content) == 0 || content[0] != '[' {
			return Response{}, fmt.Errorf("%w: object without content array", ErrBadShape)
		}
		items, err := decodeItems(content)
		if err != nil {
			return Response{}, err
		}
		return Response{Shape: ShapePage, Items: items}, nil
	default:
		return Response{}, fmt.Errorf("%w: body starts with %q", ErrBadShape, trimmed[0])
	}
}

func decodeItems(data []byte) ([]models.NewsItem, error) {
	items := []models.NewsItem{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadShape, err)
	}
	return items, nil
}

// itemsOf returns the items if the response shape is one of the accepted
// ones.
func itemsOf(resp Response, accept ...Shape) ([]models.NewsItem, error) {
	for _, s := range accept {
		if resp.Shape == s {
			return resp.Items, nil
		}
	}
	return nil, fmt.Errorf("%w: got %s", ErrBadShape, resp.Shape)
}
