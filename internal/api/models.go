package api

import (
	"context"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/avelar/chatdeck/internal/errors"
	"github.com/avelar/chatdeck/internal/models"
)

// FetchModels returns the backend's model directory in the order the
// backend lists it. Deployments wrap the list differently, so the
// body is probed for the known envelope keys before assuming a bare
// array.
func (c *Client) FetchModels(ctx context.Context) ([]models.ModelInfo, error) {
	body, _, err := c.do(ctx, fhttp.MethodGet, models.PathModels, nil)
	if err != nil {
		return nil, err
	}

	res := gjson.ParseBytes(body)
	list := res
	if res.IsObject() {
		for _, key := range []string{"models", "data"} {
			if v := res.Get(key); v.IsArray() {
				list = v
				break
			}
		}
	}
	if !list.IsArray() {
		return nil, apierrors.NewParseError("model list not found in response", models.PathModels)
	}

	var out []models.ModelInfo
	list.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		if id == "" {
			return true
		}
		name := item.Get("name").String()
		if name == "" {
			name = id
		}
		out = append(out, models.ModelInfo{
			ID:          id,
			Name:        name,
			Provider:    item.Get("provider").String(),
			Description: item.Get("description").String(),
		})
		return true
	})

	return out, nil
}
