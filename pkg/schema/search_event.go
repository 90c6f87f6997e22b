package schema

import "github.com/hamba/avro/v2"

const SearchEventSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront.search",
	"name": "search_event",
	"fields": [
		{"name": "term", "type": "string"},
		{"name": "results", "type": "int"},
		{"name": "suggestion", "type": "string"},
		{"name": "searched_at", "type": "long"}
	]
}`

type SearchEventV1 struct {
	Term       string `avro:"term"`
	Results    int    `avro:"results"`
	Suggestion string `avro:"suggestion"`
	SearchedAt int64  `avro:"searched_at"`
}

func SearchEventV1Avro() avro.Schema {
	return avro.MustParse(SearchEventSchemaTextV1)
}
