package sources

import "testing"

func TestParseCommentsBatch(t *testing.T) {
	raw := []byte(`{
	  "frameworkUpdates": {"entityBatchUpdate": {"mutations": [
	    {"payload": {"commentEntityPayload": {"properties": {"content": {"content": "Great video!"}}, "author": {"displayName": "someone"}}}},
	    {"payload": {"commentEntityPayload": {"properties": {"content": {"content": "   "}}}}},
	    {"payload": {}},
	    {"payload": {"commentEntityPayload": {"properties": {"content": {"content": "Вторая часть лучше"}}}}}
	  ]}}
	}`)

	items := parseCommentsBatch(raw)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[0].Text != "Great video!" {
		t.Errorf("item 0 = %q", items[0].Text)
	}
	if items[1].Text != "Вторая часть лучше" {
		t.Errorf("item 1 = %q", items[1].Text)
	}

	if got := parseCommentsBatch([]byte(`not json`)); got != nil {
		t.Errorf("malformed JSON: got %v, want nil", got)
	}
	if got := parseCommentsBatch([]byte(`{}`)); got != nil {
		t.Errorf("empty object: got %v, want nil", got)
	}
}

func TestExtractCommentsToken(t *testing.T) {
	data := []byte(`{"x":{"sectionIdentifier":"comment-item-section","y":1,"continuationCommand":{"token":"ABC123"}}}`)
	token, ok := extractCommentsToken(data)
	if !ok || token != "ABC123" {
		t.Errorf("token = %q ok=%v, want ABC123", token, ok)
	}

	if _, ok := extractCommentsToken([]byte(`{"comments":"disabled"}`)); ok {
		t.Error("missing section must report not ok")
	}
}

func TestExtractContinuationToken(t *testing.T) {
	data := []byte(`{"continuationCommand":{"token":"NEXT456","request":"CONTINUATION_REQUEST_TYPE_WATCH_NEXT"}}`)
	token, ok := extractContinuationToken(data)
	if !ok || token != "NEXT456" {
		t.Errorf("token = %q ok=%v, want NEXT456", token, ok)
	}

	other := []byte(`{"continuationCommand":{"token":"X","request":"CONTINUATION_REQUEST_TYPE_OTHER"}}`)
	if _, ok := extractContinuationToken(other); ok {
		t.Error("non-watch-next continuation must not match")
	}
}
