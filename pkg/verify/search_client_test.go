package verify

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPSearchClient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("缺少鉴权头: %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "strike vote" {
			t.Errorf("查询词不符: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"title":"AP story","url":"https://apnews.com/a","snippet":"workers voted"}]}`))
	}))
	defer server.Close()

	client := NewHTTPSearchClient(server.URL, "test-key", 0)
	results, err := client.Search("strike vote")
	if err != nil {
		t.Fatalf("检索失败: %v", err)
	}
	if len(results) != 1 || results[0].Title != "AP story" {
		t.Fatalf("结果不符: %+v", results)
	}
}

func TestHTTPSearchClientErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPSearchClient(server.URL, "test-key", 0)
	if _, err := client.Search("anything"); err == nil {
		t.Fatal("非200响应应报错")
	}
}
