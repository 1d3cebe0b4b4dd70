package adapter

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	text := "Sends a chat message to a chat space. The chat space must allow messages from the sender."

	got := ExtractKeywords(text, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 keywords, got %v", got)
	}
	if got[0] != "chat" {
		t.Errorf("most frequent keyword = %q, want chat", got[0])
	}
}

func TestExtractKeywordsFiltersNoise(t *testing.T) {
	// Stop words, doc boilerplate and short words never survive
	got := ExtractKeywords("the and request response returns string int of to go", 10)
	if len(got) != 0 {
		t.Errorf("expected no keywords, got %v", got)
	}
}

func TestExtractKeywordsStableOrder(t *testing.T) {
	// Equal frequencies break ties alphabetically
	got := ExtractKeywords("zebra apple zebra apple", 2)
	if !reflect.DeepEqual(got, []string{"apple", "zebra"}) {
		t.Errorf("keywords = %v", got)
	}
}

func TestExtractKeywordsEmpty(t *testing.T) {
	if got := ExtractKeywords("", 5); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := ExtractKeywords("meaningful", 0); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}
