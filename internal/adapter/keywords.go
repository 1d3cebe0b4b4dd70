package adapter

import (
	"regexp"
	"sort"
	"strings"
)

// stopWords are common English words excluded from keyword extraction.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"if": true, "because": true, "as": true, "what": true, "when": true,
	"where": true, "how": true, "to": true, "of": true, "for": true,
	"with": true, "in": true, "on": true, "by": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true, "this": true,
	"that": true, "these": true, "those": true, "it": true, "its": true,
	"from": true, "at": true, "which": true, "each": true,
}

// docWords are type names and documentation boilerplate that show up in doc
// text but carry no domain signal.
var docWords = map[string]bool{
	"str": true, "string": true, "int": true, "integer": true, "float": true,
	"bool": true, "boolean": true, "list": true, "map": true, "slice": true,
	"any": true, "none": true, "nil": true, "optional": true, "type": true,
	"object": true, "struct": true, "interface": true, "context": true,
	"param": true, "parameter": true, "parameters": true, "arg": true,
	"argument": true, "args": true, "returns": true, "return": true,
	"note": true, "example": true, "examples": true, "warning": true,
	"function": true, "method": true, "default": true, "required": true,
	"options": true, "description": true, "specify": true, "doc": true,
	"documentation": true, "see": true, "also": true, "notes": true,
	"api": true, "endpoint": true, "request": true, "response": true,
	"input": true, "output": true, "data": true, "user": true,
	"service": true, "client": true, "server": true, "call": true,
	"auth": true, "authentication": true, "authorization": true,
	"token": true, "header": true, "body": true, "query": true,
	"resource": true, "value": true, "error": true, "success": true,
	"result": true, "status": true, "code": true, "get": true, "post": true,
	"put": true, "delete": true, "patch": true, "update": true,
	"create": true, "read": true, "write": true, "fetch": true,
	"retrieve": true, "process": true, "handle": true, "implement": true,
	"provide": true, "receive": true, "send": true, "pass": true,
	"use": true, "using": true, "implementation": true, "information": true,
	"additional": true, "contain": true, "contains": true,
}

var nonWordRe = regexp.MustCompile(`[^\w\s]`)

// ExtractKeywords pulls the most frequent meaningful words out of doc text.
// Words shorter than three characters, stop words and documentation
// boilerplate are skipped. Ties break alphabetically so results are stable.
func ExtractKeywords(text string, maxKeywords int) []string {
	if text == "" || maxKeywords <= 0 {
		return nil
	}

	clean := nonWordRe.ReplaceAllString(strings.ToLower(text), "")

	counts := make(map[string]int)
	for _, word := range strings.Fields(clean) {
		if len(word) <= 2 || stopWords[word] || docWords[word] {
			continue
		}
		counts[word]++
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})

	if len(words) > maxKeywords {
		words = words[:maxKeywords]
	}
	return words
}
