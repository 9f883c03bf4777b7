package util

import (
	"database/sql"
	"encoding/json"
)

// StringToNullString treats "" as NULL.
func StringToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// NullStringOr returns ns.String, or fallback when ns is NULL or blank.
func NullStringOr(ns sql.NullString, fallback string) string {
	if !ns.Valid || ns.String == "" {
		return fallback
	}
	return ns.String
}

// EncodeJSONColumn serialises a map for a TEXT/CLOB column. nil becomes "{}".
func EncodeJSONColumn(data map[string]any) (string, error) {
	if data == nil {
		return "{}", nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeJSONColumn is the inverse of EncodeJSONColumn. Blank input yields an empty map.
func DecodeJSONColumn(raw string) (map[string]any, error) {
	out := map[string]any{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
