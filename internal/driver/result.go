package driver

import "github.com/neo4j/neo4j-go-driver/v5/neo4j"

// SingleInt pulls one integer column from the first record of an eager
// result. Missing records or columns read as 0.
func SingleInt(res neo4j.EagerResult, key string) int {
	if len(res.Records) == 0 {
		return 0
	}
	v, ok := res.Records[0].Get(key)
	if !ok {
		return 0
	}
	if n, ok := v.(int64); ok {
		return int(n)
	}
	return 0
}

// RecordString reads a string column from a record, tolerating nulls.
func RecordString(rec *neo4j.Record, key string) string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RecordStrings reads a list-of-strings column from a record.
func RecordStrings(rec *neo4j.Record, key string) []string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
