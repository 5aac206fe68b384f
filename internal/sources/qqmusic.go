// QQ Music [Source] implementation
//
// Scrapes the mobile detail page for the total song count, then pages
// through the taoge cgi endpoint 15 songs at a time.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"stationport/internal/models"
	"stationport/internal/services"
	"stationport/internal/shared"
)

const (
	defaultQQDetailURL = "https://y.qq.com/n/m/detail/taoge/index.html"
	defaultQQListURL   = "https://c.y.qq.com/qzone/fcg-bin/fcg_ucc_getcdinfo_byids_cp.fcg"

	qqPageSize = 15
)

var (
	qqPathPattern  = regexp.MustCompile(`/playlist/(\d+)`)
	qqTotalPattern = regexp.MustCompile(`共(\d+)首`)
)

// QQMusicSource resolves QQ Music share links.
type QQMusicSource struct {
	detailURL  string
	listURL    string
	httpClient *http.Client
	backoff    services.BackoffPolicy
}

// NewQQMusicSource creates a QQ Music source. Empty URLs fall back to the
// public endpoints. Page fetches retry 5xx responses per the default
// backoff policy, mirroring how flaky this endpoint is in practice.
func NewQQMusicSource(detailURL, listURL string, client *http.Client) *QQMusicSource {
	if detailURL == "" {
		detailURL = defaultQQDetailURL
	}
	if listURL == "" {
		listURL = defaultQQListURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &QQMusicSource{
		detailURL:  detailURL,
		listURL:    listURL,
		httpClient: client,
		backoff:    services.DefaultBackoffPolicy(),
	}
}

// Name returns the platform name.
func (s *QQMusicSource) Name() string {
	return "QQ Music"
}

// ExtractPlaylistID pulls the playlist id out of a share link: a disstid
// query parameter, a /playlist/<id> path, or a t.qq.com short link resolved
// through its redirect.
func (s *QQMusicSource) ExtractPlaylistID(ctx context.Context, link string) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidReference, err)
	}

	if id := parsed.Query().Get("disstid"); id != "" {
		return id, nil
	}

	if m := qqPathPattern.FindStringSubmatch(parsed.Path); m != nil {
		return m[1], nil
	}

	if parsed.Host == "t.qq.com" {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, link, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return "", fmt.Errorf("%w: short link resolution: %v", shared.ErrInvalidReference, err)
		}
		resp.Body.Close()
		return s.ExtractPlaylistID(ctx, resp.Request.URL.String())
	}

	return "", fmt.Errorf("%w: no playlist id in %s", shared.ErrInvalidReference, link)
}

func (s *QQMusicSource) headers(id string) http.Header {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0")
	h.Set("Referer", fmt.Sprintf("https://y.qq.com/w/taoge.html?ADTAG=profile_h5&id=%s", id))
	h.Set("Origin", "https://y.qq.com")
	h.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	h.Set("X-Requested-With", "XMLHttpRequest")
	return h
}

// totalSongCount scrapes the mobile detail page for the playlist's song
// count. The count sits in a bare text node, so a regexp beats a DOM walk.
func (s *QQMusicSource) totalSongCount(ctx context.Context, id string) (int, error) {
	pageURL := fmt.Sprintf("%s?ADTAG=profile_h5&id=%s", s.detailURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = s.headers(id)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: qq detail page: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: qq detail page status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: qq detail page: %v", shared.ErrAPIRequest, err)
	}

	m := qqTotalPattern.FindSubmatch(body)
	if m == nil {
		return 0, fmt.Errorf("%w: song count not found on detail page", shared.ErrAPIRequest)
	}

	return strconv.Atoi(string(m[1]))
}

type qqSinger struct {
	Name string `json:"name"`
}

type qqSong struct {
	Name   string     `json:"name"`
	Singer []qqSinger `json:"singer"`
}

type qqCD struct {
	Dissname string   `json:"dissname"`
	Songlist []qqSong `json:"songlist"`
}

type qqListResponse struct {
	Cdlist []qqCD `json:"cdlist"`
}

// Resolve scrapes the playlist page for its size, then fetches every page
// of songs. A page that still fails after retries is skipped rather than
// aborting the whole resolution; resolution fails only when nothing could
// be fetched at all.
func (s *QQMusicSource) Resolve(ctx context.Context, reference string) (*Playlist, error) {
	id, err := s.ExtractPlaylistID(ctx, reference)
	if err != nil {
		return nil, err
	}

	total, err := s.totalSongCount(ctx, id)
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: qq playlist %s is empty", shared.ErrPlaylistNotFound, id)
	}

	name := ""
	var raws []string
	var skipped []string

	for begin := 0; begin < total; begin += qqPageSize {
		var page qqListResponse
		err := s.backoff.Do(ctx, func() error {
			var pageErr error
			page, pageErr = s.fetchPage(ctx, id, begin)
			return pageErr
		})
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			skipped = append(skipped, fmt.Sprintf("page at offset %d: %v", begin, err))
			continue
		}

		if len(page.Cdlist) == 0 {
			skipped = append(skipped, fmt.Sprintf("page at offset %d: missing cdlist", begin))
			continue
		}

		cd := page.Cdlist[0]
		if name == "" {
			name = cd.Dissname
		}

		for _, song := range cd.Songlist {
			singer := ""
			if len(song.Singer) > 0 {
				singer = song.Singer[0].Name
			}
			raws = append(raws, fmt.Sprintf("%s - %s", song.Name, singer))
		}
	}

	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: no songs fetched for qq playlist %s", shared.ErrAPIRequest, id)
	}

	if name == "" {
		name = fmt.Sprintf("qqmusic-%s", id)
	}

	entries, parseSkipped := models.ParseSongList(raws)
	skipped = append(skipped, parseSkipped...)

	return &Playlist{Name: name, Entries: entries, Skipped: skipped}, nil
}

// fetchPage requests one 15-song page. Transport failures and 5xx statuses
// come back as [services.NetworkError] so the backoff policy retries them.
func (s *QQMusicSource) fetchPage(ctx context.Context, id string, begin int) (qqListResponse, error) {
	form := url.Values{}
	form.Set("format", "json")
	form.Set("inCharset", "utf-8")
	form.Set("outCharset", "utf-8")
	form.Set("notice", "0")
	form.Set("platform", "h5")
	form.Set("needNewCode", "1")
	form.Set("new_format", "1")
	form.Set("pic", "500")
	form.Set("disstid", id)
	form.Set("type", "1")
	form.Set("json", "1")
	form.Set("utf8", "1")
	form.Set("onlysong", "0")
	form.Set("nosign", "1")
	form.Set("song_begin", strconv.Itoa(begin))
	form.Set("song_num", strconv.Itoa(qqPageSize))

	pageURL := fmt.Sprintf("%s?_=%d", s.listURL, time.Now().UnixMilli())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pageURL, strings.NewReader(form.Encode()))
	if err != nil {
		return qqListResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = s.headers(id)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return qqListResponse{}, &services.NetworkError{Op: "qq song page", Err: err}
	}
	defer resp.Body.Close()

	if s.backoff.Retryable(resp.StatusCode) {
		return qqListResponse{}, &services.NetworkError{Op: "qq song page", Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return qqListResponse{}, fmt.Errorf("%w: qq song page status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var page qqListResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return qqListResponse{}, fmt.Errorf("%w: failed to decode qq response: %v", shared.ErrAPIRequest, err)
	}

	return page, nil
}
