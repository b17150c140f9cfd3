package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/graph-gophers/graphql-go"

	"go-sync-todo/internal/graph"
	"go-sync-todo/internal/services"
)

// GraphQLRequest は GraphQL over HTTP のリクエストボディです。
type GraphQLRequest struct {
	Query         string                 `json:"query" binding:"required"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// GraphQLHandler はデータAPIの GraphQL エンドポイントを管理します。
type GraphQLHandler struct {
	schema *graphql.Schema
}

// NewGraphQLHandler は新しいGraphQLHandlerを作成します。
func NewGraphQLHandler(schema *graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

// ServeGraphQL はクエリを実行します。実行エラーはレスポンスの errors に入り、ステータスは200です。
func (h *GraphQLHandler) ServeGraphQL(c *gin.Context) {
	var req GraphQLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	caller, ok := callerFromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	start := time.Now()
	ctx := graph.WithCaller(c.Request.Context(), caller)
	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	slog.Debug("graphql_request",
		"operation", req.OperationName,
		"user_id", caller.UserID,
		"errors", len(resp.Errors),
		"duration", time.Since(start),
	)
	c.JSON(http.StatusOK, resp)
}

func callerFromGin(c *gin.Context) (services.Caller, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		return services.Caller{}, false
	}
	return services.Caller{UserID: userID, Role: c.GetString("user_role")}, true
}
