package host

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// VideoSource lists recent uploads of a channel, newest first.
type VideoSource interface {
	Videos(ctx context.Context, channelURL string, limit int) ([]Video, error)
}

// FileSource reads exported video lists from <dir>/<channel>.json.
type FileSource struct {
	Dir string
}

func (s FileSource) Videos(_ context.Context, channelURL string, limit int) ([]Video, error) {
	key := ChannelKey(channelURL)
	if key == "" {
		return nil, fmt.Errorf("cannot derive channel name from %q", channelURL)
	}

	path := filepath.Join(s.Dir, key+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channel videos: %w", err)
	}

	var videos []Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, fmt.Errorf("decode channel videos %s: %w", filepath.Base(path), err)
	}

	return limitVideos(videos, limit), nil
}

// SampleSource serves a fixed set of representative uploads for offline runs.
type SampleSource struct{}

func (SampleSource) Videos(_ context.Context, _ string, limit int) ([]Video, error) {
	return limitVideos(SampleVideos(), limit), nil
}

func SampleVideos() []Video {
	return []Video{
		{
			Title:        "AI and the Future of Technology with Dr. Smith",
			VideoID:      "abc123",
			ViewCount:    250000,
			LikeCount:    15000,
			CommentCount: 2000,
			Duration:     5400,
			UploadDate:   "20240601",
			Description:  "Discussion about artificial intelligence and future technology trends",
			Tags:         []string{"AI", "technology", "future"},
			URL:          "https://youtube.com/watch?v=abc123",
		},
		{
			Title:        "Building Successful Startups with Jane Doe",
			VideoID:      "def456",
			ViewCount:    180000,
			LikeCount:    12000,
			CommentCount: 1500,
			Duration:     4800,
			UploadDate:   "20240520",
			Description:  "Entrepreneurship discussion with successful founder",
			Tags:         []string{"startup", "entrepreneurship", "business"},
			URL:          "https://youtube.com/watch?v=def456",
		},
		{
			Title:        "The Science of Learning with Prof. Johnson",
			VideoID:      "ghi789",
			ViewCount:    200000,
			LikeCount:    14000,
			CommentCount: 1800,
			Duration:     5100,
			UploadDate:   "20240510",
			Description:  "Discussion about cognitive science and learning techniques",
			Tags:         []string{"science", "learning", "education"},
			URL:          "https://youtube.com/watch?v=ghi789",
		},
	}
}

func limitVideos(videos []Video, limit int) []Video {
	if limit > 0 && len(videos) > limit {
		return videos[:limit]
	}
	return videos
}

// ChannelKey derives a stable identifier from a channel URL, for example
// "lexfridman" for https://www.youtube.com/@lexfridman/videos.
func ChannelKey(channelURL string) string {
	raw := strings.TrimSpace(channelURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	var key string
	for _, seg := range strings.Split(u.Path, "/") {
		switch seg {
		case "", "videos", "featured", "streams", "c", "channel", "user":
			continue
		}
		key = seg
		break
	}
	if key == "" {
		key = strings.TrimPrefix(u.Hostname(), "www.")
	}

	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		case r == '-', r == '_', r == '.':
			return r
		default:
			return -1
		}
	}, key)
}
