package storage

import (
	"encoding/json"
	"fmt"
)

const DefaultRecentKey = "storefront:recent_searches"

func encodeTerms(terms []string) ([]byte, error) {
	const op = "storage.encodeTerms"
	if terms == nil {
		terms = []string{}
	}
	b, err := json.Marshal(terms)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func decodeTerms(b []byte) ([]string, error) {
	const op = "storage.decodeTerms"
	var terms []string
	if err := json.Unmarshal(b, &terms); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return terms, nil
}
