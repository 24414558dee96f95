// ABOUTME: Normalizes heterogeneous list response shapes into one sequence type
// ABOUTME: Precedence is bare array, then items field, then content field, then empty

package api

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// NormalizeList extracts the record list from a raw response body.
// Backends in the wild return a bare array, {"items":[...]} or
// {"content":[...]}; anything else normalizes to an empty list rather
// than guessing.
func NormalizeList(body []byte) []json.RawMessage {
	parsed := gjson.ParseBytes(body)
	if parsed.IsArray() {
		return rawItems(parsed)
	}
	if parsed.IsObject() {
		if items := parsed.Get("items"); items.IsArray() {
			return rawItems(items)
		}
		if content := parsed.Get("content"); content.IsArray() {
			return rawItems(content)
		}
	}
	return []json.RawMessage{}
}

func rawItems(arr gjson.Result) []json.RawMessage {
	items := arr.Array()
	out := make([]json.RawMessage, 0, len(items))
	for _, item := range items {
		out = append(out, json.RawMessage(item.Raw))
	}
	return out
}
