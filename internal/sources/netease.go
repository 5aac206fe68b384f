// NetEase Cloud Music [Source] implementation
//
// Extracts the playlist id from the many share-link shapes NetEase emits,
// then fetches details from the v6 playlist API.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"stationport/internal/models"
	"stationport/internal/shared"
)

const defaultNetEaseAPIURL = "https://music.163.com/api/v6/playlist/detail"

var neteasePathPattern = regexp.MustCompile(`/playlist/(\d+)`)

// NetEaseSource resolves NetEase Cloud Music share links.
type NetEaseSource struct {
	apiURL     string
	httpClient *http.Client
}

// NewNetEaseSource creates a NetEase source. apiURL defaults to the public
// v6 playlist detail endpoint.
func NewNetEaseSource(apiURL string, client *http.Client) *NetEaseSource {
	if apiURL == "" {
		apiURL = defaultNetEaseAPIURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &NetEaseSource{apiURL: apiURL, httpClient: client}
}

// Name returns the platform name.
func (s *NetEaseSource) Name() string {
	return "NetEase Cloud Music"
}

// ExtractPlaylistID pulls the playlist id out of a share link. Supported
// shapes: an id query parameter, a fragment query (the #/playlist?id=...
// web player form), a /playlist/<id> fragment path, and t.cn short links
// which are resolved through their redirect first.
func (s *NetEaseSource) ExtractPlaylistID(ctx context.Context, link string) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidReference, err)
	}

	if id := parsed.Query().Get("id"); id != "" {
		return id, nil
	}

	if fragment, err := url.Parse(parsed.Fragment); err == nil {
		if id := fragment.Query().Get("id"); id != "" {
			return id, nil
		}
	}

	if m := neteasePathPattern.FindStringSubmatch(parsed.Fragment); m != nil {
		return m[1], nil
	}
	if m := neteasePathPattern.FindStringSubmatch(parsed.Path); m != nil {
		return m[1], nil
	}

	if parsed.Host == "t.cn" {
		resolved, err := s.resolveShortLink(ctx, link)
		if err != nil {
			return "", err
		}
		return s.ExtractPlaylistID(ctx, resolved)
	}

	return "", fmt.Errorf("%w: no playlist id in %s", shared.ErrInvalidReference, link)
}

// resolveShortLink follows a short link's redirect chain and returns the
// final URL.
func (s *NetEaseSource) resolveShortLink(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: short link resolution: %v", shared.ErrInvalidReference, err)
	}
	defer resp.Body.Close()

	return resp.Request.URL.String(), nil
}

type neteaseArtist struct {
	Name string `json:"name"`
}

type neteaseTrack struct {
	Name    string          `json:"name"`
	Artists []neteaseArtist `json:"ar"`
}

type neteasePlaylist struct {
	Name   string         `json:"name"`
	Tracks []neteaseTrack `json:"tracks"`
}

type neteaseDetailResponse struct {
	Code     int             `json:"code"`
	Msg      string          `json:"msg"`
	Playlist neteasePlaylist `json:"playlist"`
}

// Resolve fetches the playlist details and parses its tracks into entries.
// Multi-artist credits are joined with " / " before parsing, matching the
// delimiter set the match engine splits on.
func (s *NetEaseSource) Resolve(ctx context.Context, reference string) (*Playlist, error) {
	id, err := s.ExtractPlaylistID(ctx, reference)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("id", id)
	form.Set("n", "1000")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "https://music.163.com/")
	req.Header.Set("Origin", "https://music.163.com")
	req.Header.Set("Cookie", "os=pc")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: netease playlist detail: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: netease playlist detail status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var detail neteaseDetailResponse
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("%w: failed to decode netease response: %v", shared.ErrAPIRequest, err)
	}

	if detail.Code != 200 {
		msg := detail.Msg
		if msg == "" {
			msg = fmt.Sprintf("code %d", detail.Code)
		}
		return nil, fmt.Errorf("%w: netease API error: %s", shared.ErrAPIRequest, msg)
	}

	name := detail.Playlist.Name
	if name == "" {
		name = fmt.Sprintf("netease-%s", id)
	}

	raws := make([]string, 0, len(detail.Playlist.Tracks))
	for _, track := range detail.Playlist.Tracks {
		artists := make([]string, 0, len(track.Artists))
		for _, artist := range track.Artists {
			if artist.Name != "" {
				artists = append(artists, artist.Name)
			}
		}
		raws = append(raws, fmt.Sprintf("%s - %s", track.Name, strings.Join(artists, " / ")))
	}

	entries, skipped := models.ParseSongList(raws)
	return &Playlist{Name: name, Entries: entries, Skipped: skipped}, nil
}
