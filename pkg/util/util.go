package util

import (
	"strings"
)

// MergeUnique - concatenates the lists, dropping blanks and repeated values while keeping first-seen order
func MergeUnique(lists ...[]string) []string {
	seen := map[string]struct{}{}
	merged := []string{}
	for _, list := range lists {
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			merged = append(merged, v)
		}
	}
	return merged
}
