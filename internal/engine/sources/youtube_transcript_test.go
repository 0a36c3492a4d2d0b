package sources

import (
	"encoding/json"
	"encoding/xml"
	"testing"
)

func TestTimedTextParsing(t *testing.T) {
	raw := `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.12" dur="2.5">Hello &amp; welcome</text>
  <text start="2.62" dur="1.8">to the &lt;b&gt;show&lt;/b&gt;</text>
  <text start="4.5" dur="1.0"></text>
</transcript>`

	var tt ytTimedText
	if err := xml.Unmarshal([]byte(raw), &tt); err != nil {
		t.Fatalf("unmarshal timedtext: %v", err)
	}
	if len(tt.Lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(tt.Lines))
	}
	if tt.Lines[0].Start != 0.12 || tt.Lines[0].Dur != 2.5 {
		t.Errorf("line 0 timing = %v/%v, want 0.12/2.5", tt.Lines[0].Start, tt.Lines[0].Dur)
	}
	if tt.Lines[0].Text != "Hello & welcome" {
		t.Errorf("line 0 text = %q", tt.Lines[0].Text)
	}
}

func TestPickBestTrack(t *testing.T) {
	tracks := []captionTrack{
		{BaseURL: "https://yt/asr-en", LanguageCode: "en", Kind: "asr"},
		{BaseURL: "https://yt/manual-en", LanguageCode: "en"},
		{BaseURL: "https://yt/manual-ru", LanguageCode: "ru"},
		{BaseURL: "https://yt/blocked&exp=xpe", LanguageCode: "pl"},
	}

	got, ok := pickBestTrack(tracks, []string{"ru"})
	if !ok || got.LanguageCode != "ru" {
		t.Errorf("preferred language: got %q ok=%v, want ru", got.LanguageCode, ok)
	}

	got, ok = pickBestTrack(tracks, []string{"en"})
	if !ok || got.BaseURL != "https://yt/manual-en" {
		t.Errorf("manual over asr: got %q", got.BaseURL)
	}

	got, ok = pickBestTrack(tracks, []string{"pl"})
	if !ok || got.LanguageCode == "pl" {
		t.Errorf("PoToken track must be skipped, got %q ok=%v", got.LanguageCode, ok)
	}

	got, ok = pickBestTrack(tracks, nil)
	if !ok || got.BaseURL != "https://yt/manual-en" {
		t.Errorf("no preference falls back to english: got %q", got.BaseURL)
	}

	onlyASR := []captionTrack{{BaseURL: "https://yt/asr-de", LanguageCode: "de", Kind: "asr"}}
	got, ok = pickBestTrack(onlyASR, []string{"en"})
	if !ok || got.LanguageCode != "de" {
		t.Errorf("last resort any usable track: got %q ok=%v", got.LanguageCode, ok)
	}

	allBlocked := []captionTrack{{BaseURL: "https://yt/a&exp=xpe", LanguageCode: "en"}}
	if _, ok := pickBestTrack(allBlocked, []string{"en"}); ok {
		t.Error("all-blocked track list must report not ok")
	}
}

func TestNeedsPoToken(t *testing.T) {
	if needsPoToken("https://yt/track?lang=en") {
		t.Error("plain track flagged as PoToken")
	}
	if !needsPoToken("https://yt/track?lang=en&exp=xpe") {
		t.Error("xpe track not flagged")
	}
}

func TestExtractTranscriptToken(t *testing.T) {
	data := []byte(`{"engagementPanels":[{"x":{"getTranscriptEndpoint":{"params":"Cg%3D%3D"}}}]}`)
	token, err := extractTranscriptToken(data)
	if err != nil {
		t.Fatalf("extract token: %v", err)
	}
	if token != "Cg==" {
		t.Errorf("token = %q, want decoded %q", token, "Cg==")
	}

	if _, err := extractTranscriptToken([]byte(`{}`)); err == nil {
		t.Error("missing endpoint must error")
	}
}

func TestParseTranscriptSegments(t *testing.T) {
	raw := `{
	  "actions": [{
	    "updateEngagementPanelAction": {
	      "content": {"transcriptRenderer": {"content": {"transcriptSearchPanelRenderer": {"body": {
	        "transcriptSegmentListRenderer": {"initialSegments": [
	          {"transcriptSegmentRenderer": {"startMs": "1200", "snippet": {"runs": [{"text": "first "}, {"text": "line"}]}}},
	          {"transcriptSegmentRenderer": {"startMs": "3400", "snippet": {"runs": [{"text": "  "}]}}},
	          {"transcriptSegmentRenderer": {"startMs": "5600", "snippet": {"runs": [{"text": "second"}]}}},
	          {}
	        ]}
	      }}}}}
	    }
	  }]
	}`

	var resp ytGetTranscriptResp
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	items := parseTranscriptSegments(resp)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 (blank and nil segments dropped)", len(items))
	}
	if items[0].Text != "first line" || items[0].Timestamp != 1200 {
		t.Errorf("item 0 = %+v", items[0])
	}
	if items[1].Text != "second" || items[1].Timestamp != 5600 {
		t.Errorf("item 1 = %+v", items[1])
	}
}
