// Package graph はアイテムコレクションを GraphQL で公開します。
package graph

import (
	"github.com/graph-gophers/graphql-go"
)

// Schema はデータAPIの GraphQL スキーマです。
const Schema = `
schema {
	query: Query
	mutation: Mutation
}

type Item {
	_id: String!
	checked: Boolean!
	owner_id: String!
	task: String!
}

input ItemQueryInput {
	_id: String
	owner_id: String
	task: String
	checked: Boolean
}

input ItemInsertInput {
	_id: String
	owner_id: String!
	task: String!
	checked: Boolean
}

input ItemUpdateInput {
	task: String
	checked: Boolean
}

type DeleteManyPayload {
	deletedCount: Int!
}

type UpdateManyPayload {
	matchedCount: Int!
	modifiedCount: Int!
}

type Query {
	item(query: ItemQueryInput): Item
	items(query: ItemQueryInput, limit: Int): [Item!]!
}

type Mutation {
	insertOneItem(data: ItemInsertInput!): Item
	deleteOneItem(query: ItemQueryInput!): Item
	deleteManyItems(query: ItemQueryInput): DeleteManyPayload
	updateOneItem(query: ItemQueryInput!, set: ItemUpdateInput!): Item
	updateManyItems(query: ItemQueryInput, set: ItemUpdateInput!): UpdateManyPayload
}
`

// NewSchema はリゾルバを結び付けたスキーマを返します。
func NewSchema(r *Resolver) *graphql.Schema {
	return graphql.MustParseSchema(Schema, r, graphql.MaxDepth(8))
}
