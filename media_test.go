package petkit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_GetCloudVideo(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves and caches the descriptor", func(t *testing.T) {
		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			writeResult(w, []map[string]any{{
				"startTime": 100,
				"endTime":   160,
				"eventId":   "evt-1",
				"mediaApi":  "https://media.example.com/evt-1.m3u8",
			}})
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		videoURL := server.URL + "/cloud/video?eventId=evt-1"

		video, err := client.GetCloudVideo(ctx, videoURL)
		if err != nil {
			t.Fatalf("GetCloudVideo() error = %v", err)
		}
		if video == nil || video.EventID != "evt-1" {
			t.Fatalf("video = %+v, want eventId evt-1", video)
		}
		if video.MediaAPI != "https://media.example.com/evt-1.m3u8" {
			t.Errorf("MediaAPI = %q", video.MediaAPI)
		}

		// Second resolution is served from the cache.
		if _, err := client.GetCloudVideo(ctx, videoURL); err != nil {
			t.Fatalf("GetCloudVideo() second call error = %v", err)
		}
		if calls != 1 {
			t.Errorf("server calls = %d, want 1", calls)
		}
	})

	t.Run("no recording yields nil without error", func(t *testing.T) {
		for name, payload := range map[string]any{
			"empty list":  []any{},
			"bare object": map[string]any{"status": "processing"},
		} {
			t.Run(name, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeResult(w, payload)
				}))
				defer server.Close()

				client := newTestClient(t, server.URL)
				video, err := client.GetCloudVideo(ctx, server.URL+"/cloud/video")
				if err != nil {
					t.Fatalf("GetCloudVideo() error = %v", err)
				}
				if video != nil {
					t.Errorf("video = %+v, want nil", video)
				}
			})
		}
	})
}

func TestClient_ExtractM3U8Segments(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts segments and key", func(t *testing.T) {
		mux := http.NewServeMux()
		server := httptest.NewServer(mux)
		defer server.Close()

		mux.HandleFunc("/key", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("0123456789abcdef"))
		})
		mux.HandleFunc("/play.m3u8", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXT-X-KEY:METHOD=AES-128,URI="%s/key",IV=0x9876
#EXTINF:10.0,
seg0.ts
#EXTINF:10.0,
seg1.ts
#EXT-X-ENDLIST
`, server.URL)
		})

		client := newTestClient(t, server.URL)
		media, err := client.ExtractM3U8Segments(ctx, server.URL+"/play.m3u8")
		if err != nil {
			t.Fatalf("ExtractM3U8Segments() error = %v", err)
		}
		if media == nil {
			t.Fatal("media = nil, want segments")
		}
		if string(media.AESKey) != "0123456789abcdef" {
			t.Errorf("AESKey = %q", media.AESKey)
		}
		if media.KeyIV != "0x9876" {
			t.Errorf("KeyIV = %q, want 0x9876", media.KeyIV)
		}
		want := []string{"seg0.ts", "seg1.ts"}
		if len(media.Segments) != len(want) {
			t.Fatalf("segments = %v, want %v", media.Segments, want)
		}
		for i := range want {
			if media.Segments[i] != want[i] {
				t.Errorf("segment[%d] = %q, want %q", i, media.Segments[i], want[i])
			}
		}
	})

	t.Run("unencrypted playlist yields nil", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10
#EXTINF:10.0,
seg0.ts
#EXT-X-ENDLIST
`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		media, err := client.ExtractM3U8Segments(ctx, server.URL+"/play.m3u8")
		if err != nil {
			t.Fatalf("ExtractM3U8Segments() error = %v", err)
		}
		if media != nil {
			t.Errorf("media = %+v, want nil", media)
		}
	})

	t.Run("master playlist rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=1280000
low/play.m3u8
`)
		}))
		defer server.Close()

		client := newTestClient(t, server.URL)
		if _, err := client.ExtractM3U8Segments(ctx, server.URL+"/master.m3u8"); err == nil {
			t.Fatal("ExtractM3U8Segments() error = nil, want media playlist error")
		}
	})
}
