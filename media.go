package petkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/grafov/m3u8"
)

// MediaType distinguishes downloadable media kinds.
type MediaType string

// Media kinds.
const (
	MediaTypeVideo MediaType = "mp4"
	MediaTypeImage MediaType = "jpg"
)

// MediaFile is one downloadable artifact produced by a camera device event.
type MediaFile struct {
	DeviceID  int64
	EventID   string
	Timestamp int64
	Type      MediaType
	URL       string
	// AESKey decrypts the artifact when the cloud serves it encrypted.
	AESKey string
}

// MediaFetcher downloads the media artifacts of a camera-equipped entity.
// Implementations are invoked by the media batch of a refresh cycle, one
// call per device, already bounded by the batch concurrency limit.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, entity Entity) ([]MediaFile, error)
}

// CloudVideo is one cloud recording descriptor returned for an event's
// video URL. Only accounts with an active Care+ subscription get these.
type CloudVideo struct {
	StartTime int64  `json:"startTime,omitempty"`
	EndTime   int64  `json:"endTime,omitempty"`
	EventID   string `json:"eventId,omitempty"`
	MediaAPI  string `json:"mediaApi,omitempty"`
}

// cloudVideoCacheTTL bounds how long a resolved cloud video descriptor is
// reused before asking the cloud again.
const cloudVideoCacheTTL = 5 * time.Minute

// GetCloudVideo resolves an event's cloud video descriptor. Returns
// (nil, nil) when the cloud has no recording, which is the normal case for
// accounts without a Care+ subscription or before the upload completes.
func (c *Client) GetCloudVideo(ctx context.Context, videoURL string) (*CloudVideo, error) {
	if cached, ok := c.videoCache.Get(videoURL); ok {
		if video, ok := cached.(*CloudVideo); ok {
			return video, nil
		}
	}

	raw, err := c.postResult(ctx, videoURL, nil)
	if err != nil {
		return nil, err
	}

	// Anything but a non-empty list means no recording is available.
	var videos []CloudVideo
	if err := json.Unmarshal(raw, &videos); err != nil || len(videos) == 0 {
		c.logWarn(ctx, "cloud_video_unavailable", slog.String("url", videoURL))
		return nil, nil
	}

	video := &videos[0]
	c.videoCache.Set(videoURL, video, cloudVideoCacheTTL)
	return video, nil
}

// M3U8Media is a decrypted-playback bundle extracted from an HLS playlist:
// the ordered segment URIs plus the AES key and IV needed to decrypt them.
type M3U8Media struct {
	AESKey   []byte
	KeyIV    string
	Segments []string
}

// ExtractM3U8Segments fetches an HLS media playlist, collects its segment
// URIs and resolves the AES key it references. Returns (nil, nil) when the
// playlist has no segments or carries no encryption key.
func (c *Client) ExtractM3U8Segments(ctx context.Context, playlistURL string) (*M3U8Media, error) {
	body, err := c.rawGet(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch playlist: %w", err)
	}

	playlist, listType, err := m3u8.DecodeFrom(bytes.NewReader(body), true)
	if err != nil {
		return nil, fmt.Errorf("failed to parse playlist: %w", err)
	}
	if listType != m3u8.MEDIA {
		return nil, fmt.Errorf("%w: expected media playlist", ErrInvalidResponseFormat)
	}

	media := playlist.(*m3u8.MediaPlaylist)
	if media.Key == nil || media.Key.URI == "" {
		return nil, nil
	}

	var segments []string
	for _, segment := range media.Segments {
		if segment == nil {
			break
		}
		segments = append(segments, segment.URI)
	}
	if len(segments) == 0 {
		return nil, nil
	}

	key, err := c.rawGet(ctx, media.Key.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch AES key: %w", err)
	}

	return &M3U8Media{
		AESKey:   key,
		KeyIV:    media.Key.IV,
		Segments: segments,
	}, nil
}
