// Package remote はホストされたデータAPIに GraphQL でアクセスするクライアントです。
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/machinebox/graphql"

	"go-sync-todo/internal/models"
	"go-sync-todo/internal/todosync"
)

// ErrUnauthorized はトークンが無効または期限切れであることを表します。
var ErrUnauthorized = errors.New("unauthorized: log in again")

const itemFields = "_id checked owner_id task"

var (
	itemsQuery = `query Items($query: ItemQueryInput, $limit: Int) {
  items(query: $query, limit: $limit) { ` + itemFields + ` }
}`
	itemQuery = `query Item($query: ItemQueryInput) {
  item(query: $query) { ` + itemFields + ` }
}`
	insertOneMutation = `mutation InsertOneItem($data: ItemInsertInput!) {
  insertOneItem(data: $data) { _id }
}`
	deleteOneMutation = `mutation DeleteOneItem($query: ItemQueryInput!) {
  deleteOneItem(query: $query) { _id }
}`
	deleteManyMutation = `mutation DeleteManyItems($query: ItemQueryInput) {
  deleteManyItems(query: $query) { deletedCount }
}`
	updateOneMutation = `mutation UpdateOneItem($query: ItemQueryInput!, $set: ItemUpdateInput!) {
  updateOneItem(query: $query, set: $set) { ` + itemFields + ` }
}`
	updateManyMutation = `mutation UpdateManyItems($query: ItemQueryInput, $set: ItemUpdateInput!) {
  updateManyItems(query: $query, set: $set) { modifiedCount }
}`
)

// Client は todosync.ItemRepository をデータAPIの GraphQL エンドポイントで実装します。
type Client struct {
	gql *graphql.Client
}

var _ todosync.ItemRepository = (*Client)(nil)

// NewClient は baseURL (例: http://localhost:8080) の /graphql に接続するクライアントを作成します。
func NewClient(baseURL, token string) *Client {
	httpClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: &authTransport{token: token, base: http.DefaultTransport},
	}
	gql := graphql.NewClient(baseURL+"/graphql", graphql.WithHTTPClient(httpClient))
	gql.Log = func(s string) { slog.Debug("graphql_client", "message", s) }
	return &Client{gql: gql}
}

// authTransport は Bearer トークンを付与し、401 を ErrUnauthorized に変換します。
type authTransport struct {
	token string
	base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	res, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusUnauthorized {
		res.Body.Close()
		return nil, ErrUnauthorized
	}
	return res, nil
}

type itemInsert struct {
	ID      string `json:"_id,omitempty"`
	OwnerID string `json:"owner_id"`
	Task    string `json:"task"`
	Checked bool   `json:"checked"`
}

func (c *Client) run(ctx context.Context, op, query string, vars map[string]any, resp any) error {
	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	if err := c.gql.Run(ctx, req, resp); err != nil {
		if errors.Is(err, ErrUnauthorized) {
			return ErrUnauthorized
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FindItems は items クエリを実行します。
func (c *Client) FindItems(ctx context.Context, filter models.ItemFilter, limit int) ([]models.TodoItem, error) {
	vars := map[string]any{"query": filter}
	if limit > 0 {
		vars["limit"] = limit
	}
	var resp struct {
		Items []models.TodoItem `json:"items"`
	}
	if err := c.run(ctx, "items", itemsQuery, vars, &resp); err != nil {
		return nil, err
	}
	if resp.Items == nil {
		resp.Items = []models.TodoItem{}
	}
	return resp.Items, nil
}

// FindOneItem は item クエリを実行します。
func (c *Client) FindOneItem(ctx context.Context, filter models.ItemFilter) (*models.TodoItem, error) {
	var resp struct {
		Item *models.TodoItem `json:"item"`
	}
	if err := c.run(ctx, "item", itemQuery, map[string]any{"query": filter}, &resp); err != nil {
		return nil, err
	}
	if resp.Item == nil {
		return nil, todosync.ErrItemNotFound
	}
	return resp.Item, nil
}

// InsertItem は insertOneItem を実行し、サーバーが採番した _id を返します。
func (c *Client) InsertItem(ctx context.Context, item models.TodoItem) (string, error) {
	data := itemInsert{ID: item.ID, OwnerID: item.OwnerID, Task: item.Task, Checked: item.Checked}
	var resp struct {
		InsertOneItem *struct {
			ID string `json:"_id"`
		} `json:"insertOneItem"`
	}
	if err := c.run(ctx, "insertOneItem", insertOneMutation, map[string]any{"data": data}, &resp); err != nil {
		return "", err
	}
	if resp.InsertOneItem == nil || resp.InsertOneItem.ID == "" {
		return "", errors.New("insertOneItem: empty response")
	}
	return resp.InsertOneItem.ID, nil
}

// DeleteItem は deleteOneItem を実行します。
func (c *Client) DeleteItem(ctx context.Context, filter models.ItemFilter) (int, error) {
	var resp struct {
		DeleteOneItem *struct {
			ID string `json:"_id"`
		} `json:"deleteOneItem"`
	}
	if err := c.run(ctx, "deleteOneItem", deleteOneMutation, map[string]any{"query": filter}, &resp); err != nil {
		return 0, err
	}
	if resp.DeleteOneItem == nil {
		return 0, nil
	}
	return 1, nil
}

// DeleteManyItems は deleteManyItems を実行します。
func (c *Client) DeleteManyItems(ctx context.Context, filter models.ItemFilter) (int, error) {
	var resp struct {
		DeleteManyItems *struct {
			DeletedCount int `json:"deletedCount"`
		} `json:"deleteManyItems"`
	}
	if err := c.run(ctx, "deleteManyItems", deleteManyMutation, map[string]any{"query": filter}, &resp); err != nil {
		return 0, err
	}
	if resp.DeleteManyItems == nil {
		return 0, nil
	}
	return resp.DeleteManyItems.DeletedCount, nil
}

// UpdateItem は updateOneItem を実行し、更新後のアイテムを返します。
func (c *Client) UpdateItem(ctx context.Context, filter models.ItemFilter, set models.ItemUpdate) (*models.TodoItem, error) {
	var resp struct {
		UpdateOneItem *models.TodoItem `json:"updateOneItem"`
	}
	vars := map[string]any{"query": filter, "set": set}
	if err := c.run(ctx, "updateOneItem", updateOneMutation, vars, &resp); err != nil {
		return nil, err
	}
	if resp.UpdateOneItem == nil {
		return nil, todosync.ErrItemNotFound
	}
	return resp.UpdateOneItem, nil
}

// UpdateManyItems は updateManyItems を実行し、変更件数を返します。
func (c *Client) UpdateManyItems(ctx context.Context, filter models.ItemFilter, set models.ItemUpdate) (int, error) {
	var resp struct {
		UpdateManyItems *struct {
			ModifiedCount int `json:"modifiedCount"`
		} `json:"updateManyItems"`
	}
	vars := map[string]any{"query": filter, "set": set}
	if err := c.run(ctx, "updateManyItems", updateManyMutation, vars, &resp); err != nil {
		return 0, err
	}
	if resp.UpdateManyItems == nil {
		return 0, nil
	}
	return resp.UpdateManyItems.ModifiedCount, nil
}
