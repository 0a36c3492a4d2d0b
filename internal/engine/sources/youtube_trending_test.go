package sources

import "testing"

func TestExtractTrendingVideos(t *testing.T) {
	raw := []byte(`{
	  "contents": {"tabs": [{"items": [
	    {"videoRenderer": {"videoId": "aaaaaaaaaaa", "title": {"runs": [{"text": "First"}]}, "ownerText": {"runs": [{"text": "Channel A"}]}, "viewCountText": {"simpleText": "1.2M views"}}},
	    {"videoRenderer": {"videoId": "aaaaaaaaaaa", "title": {"runs": [{"text": "Duplicate"}]}}},
	    {"other": {"videoRenderer": {"videoId": "bbbbbbbbbbb", "title": {"runs": [{"text": "Second"}]}}}},
	    {"videoRenderer": {"videoId": "ccccccccccc", "title": {"runs": [{"text": "Third"}]}}}
	  ]}]}
	}`)

	videos := extractTrendingVideos(raw, 10)
	if len(videos) != 3 {
		t.Fatalf("videos = %d, want 3 (duplicate dropped)", len(videos))
	}
	if videos[0].ID != "aaaaaaaaaaa" || videos[0].Title != "First" {
		t.Errorf("video 0 = %+v", videos[0])
	}
	if videos[0].Channel != "Channel A" || videos[0].Views != "1.2M views" {
		t.Errorf("video 0 metadata = %+v", videos[0])
	}
	if videos[0].URL != "https://www.youtube.com/watch?v=aaaaaaaaaaa" {
		t.Errorf("video 0 URL = %q", videos[0].URL)
	}

	limited := extractTrendingVideos(raw, 1)
	if len(limited) != 1 {
		t.Errorf("limit not applied: %d", len(limited))
	}

	if got := extractTrendingVideos([]byte(`{}`), 5); len(got) != 0 {
		t.Errorf("empty feed: got %d videos", len(got))
	}
}
