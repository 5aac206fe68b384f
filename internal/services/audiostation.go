// Synology AudioStation implementation of [CatalogClient]
//
// Speaks the DSM Web API: endpoint discovery via SYNO.API.Info, session
// login via SYNO.API.Auth, song listing via SYNO.AudioStation.Song and
// playlist mutation via SYNO.AudioStation.Playlist.
package services

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"stationport/internal/models"
	"stationport/internal/shared"
)

const (
	apiInfo     = "SYNO.API.Info"
	apiAuth     = "SYNO.API.Auth"
	apiSong     = "SYNO.AudioStation.Song"
	apiPlaylist = "SYNO.AudioStation.Playlist"

	infoPath = "query.cgi"

	defaultDeviceName = "stationport"
	defaultTimeout    = 10 * time.Second
)

// apiEndpoint describes one API discovered via SYNO.API.Info.
type apiEndpoint struct {
	Path       string `json:"path"`
	MinVersion int    `json:"minVersion"`
	MaxVersion int    `json:"maxVersion"`
}

// apiEnvelope is the common DSM response wrapper.
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *apiError       `json:"error"`
}

type apiError struct {
	Code int `json:"code"`
}

type authData struct {
	SID string `json:"sid"`
	DID string `json:"did"`
}

type songTag struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

type songAdditional struct {
	Tag songTag `json:"song_tag"`
}

type songRow struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Additional songAdditional `json:"additional"`
}

type songListData struct {
	Songs []songRow `json:"songs"`
	Total int       `json:"total"`
}

type playlistCreateData struct {
	ID string `json:"id"`
}

// AudioStationService implements [CatalogClient] against a Synology
// AudioStation instance. All calls share one authenticated session (sid)
// and are spaced by a rate limiter; reads retry per the injected
// [BackoffPolicy], mutations never retry.
type AudioStationService struct {
	host       string
	username   string
	password   string
	deviceName string
	httpClient *http.Client
	limiter    *rate.Limiter
	backoff    BackoffPolicy

	endpoints map[string]apiEndpoint
	sid       string
	did       string
}

// AudioStationOpts contains configuration options for creating an AudioStationService.
type AudioStationOpts struct {
	Host             string
	Username         string
	Password         string
	DeviceName       string
	HTTPClient       *http.Client
	Backoff          *BackoffPolicy
	Timeout          time.Duration
	RequestsPerSec   float64
	AllowInsecureTLS bool
}

// NewAudioStationService creates a new AudioStation client for the given host.
func NewAudioStationService(opts AudioStationOpts) *AudioStationService {
	if opts.DeviceName == "" {
		opts.DeviceName = defaultDeviceName
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RequestsPerSec <= 0 {
		opts.RequestsPerSec = 10
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
		if opts.AllowInsecureTLS {
			// NAS boxes commonly run self-signed certificates.
			client.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}

	backoff := DefaultBackoffPolicy()
	if opts.Backoff != nil {
		backoff = *opts.Backoff
	}

	return &AudioStationService{
		host:       strings.TrimRight(opts.Host, "/"),
		username:   opts.Username,
		password:   opts.Password,
		deviceName: opts.DeviceName,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
		backoff:    backoff,
	}
}

// Name returns the service name.
func (s *AudioStationService) Name() string {
	return "AudioStation"
}

// Authenticated reports whether a session id has been obtained.
func (s *AudioStationService) Authenticated() bool {
	return s.sid != ""
}

// SessionID returns the current session id, empty before login.
func (s *AudioStationService) SessionID() string {
	return s.sid
}

// DiscoverEndpoints queries SYNO.API.Info for the paths of every available
// API. Must run before any other call; Login performs it lazily.
func (s *AudioStationService) DiscoverEndpoints(ctx context.Context) error {
	params := url.Values{}
	params.Set("version", "1")
	params.Set("api", apiInfo)
	params.Set("method", "query")
	params.Set("query", "all")

	data, err := s.doRequest(ctx, http.MethodGet, infoPath, params, apiInfo)
	if err != nil {
		return err
	}

	endpoints := map[string]apiEndpoint{}
	if err := json.Unmarshal(data, &endpoints); err != nil {
		return fmt.Errorf("%w: failed to decode endpoint map: %v", shared.ErrAPIRequest, err)
	}

	s.endpoints = endpoints
	return nil
}

// endpoint resolves the request path for a discovered API.
func (s *AudioStationService) endpoint(api string) (apiEndpoint, error) {
	ep, ok := s.endpoints[api]
	if !ok || ep.Path == "" {
		return apiEndpoint{}, fmt.Errorf("%w: %s", shared.ErrEndpointNotFound, api)
	}
	return ep, nil
}

// Login authenticates against SYNO.API.Auth with the configured account.
//
// When the server demands a second factor the returned error wraps
// [shared.ErrOTPRequired]; callers resume via [AudioStationService.LoginOTP]
// instead of any interactive prompt.
func (s *AudioStationService) Login(ctx context.Context) error {
	return s.login(ctx, "")
}

// LoginOTP resumes a challenged login with the supplied one-time password.
func (s *AudioStationService) LoginOTP(ctx context.Context, otpCode string) error {
	if otpCode == "" {
		return fmt.Errorf("%w: otp code", shared.ErrMissingArgument)
	}
	return s.login(ctx, otpCode)
}

func (s *AudioStationService) login(ctx context.Context, otpCode string) error {
	if s.endpoints == nil {
		if err := s.DiscoverEndpoints(ctx); err != nil {
			return err
		}
	}

	ep, err := s.endpoint(apiAuth)
	if err != nil {
		return err
	}

	payload := url.Values{}
	payload.Set("version", "6")
	payload.Set("api", apiAuth)
	payload.Set("method", "login")
	payload.Set("session", "AudioStation")
	payload.Set("device_name", s.deviceName)
	payload.Set("account", s.username)
	payload.Set("passwd", s.password)
	payload.Set("enable_device_token", "yes")
	if otpCode != "" {
		payload.Set("otp_code", otpCode)
	}

	data, err := s.doRequest(ctx, http.MethodPost, ep.Path, payload, apiAuth)
	if err != nil {
		if srv, ok := serverError(err); ok {
			if srv.Code == 403 {
				return fmt.Errorf("%s: %w", apiAuth, shared.ErrOTPRequired)
			}
			return fmt.Errorf("%w: %s code %d", shared.ErrAuthFailed, apiAuth, srv.Code)
		}
		return err
	}

	var auth authData
	if err := json.Unmarshal(data, &auth); err != nil {
		return fmt.Errorf("%w: failed to decode auth response: %v", shared.ErrAuthFailed, err)
	}
	if auth.SID == "" {
		return fmt.Errorf("%w: response missing sid", shared.ErrAuthFailed)
	}

	s.sid = auth.SID
	s.did = auth.DID
	return nil
}

// ListCatalogPage fetches one page of songs with their artist tags. Reads
// retry transient failures per the backoff policy before surfacing them.
func (s *AudioStationService) ListCatalogPage(ctx context.Context, offset, limit int) ([]models.CatalogEntry, int, error) {
	if !s.Authenticated() {
		return nil, 0, shared.ErrNotAuthenticated
	}

	ep, err := s.endpoint(apiSong)
	if err != nil {
		return nil, 0, err
	}

	params := url.Values{}
	params.Set("version", "3")
	params.Set("api", apiSong)
	params.Set("method", "list")
	params.Set("library", "all")
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("additional", "song_tag,song_audio,song_rating")
	params.Set("_sid", s.sid)

	var page songListData
	err = s.backoff.Do(ctx, func() error {
		data, reqErr := s.doRequest(ctx, http.MethodGet, ep.Path, params, apiSong)
		if reqErr != nil {
			return reqErr
		}
		page = songListData{}
		if decErr := json.Unmarshal(data, &page); decErr != nil {
			return fmt.Errorf("%w: failed to decode song list: %v", shared.ErrAPIRequest, decErr)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	entries := make([]models.CatalogEntry, 0, len(page.Songs))
	for _, row := range page.Songs {
		if row.ID == "" {
			return nil, 0, fmt.Errorf("%w: song row missing id at offset %d", shared.ErrAPIRequest, offset)
		}
		entries = append(entries, models.NewCatalogEntry(row.ID, row.Title, row.Additional.Tag.Artist))
	}

	return entries, page.Total, nil
}

// CreatePlaylist creates a personal playlist and returns its id. Not
// retried; repeating a create risks duplicate playlists.
func (s *AudioStationService) CreatePlaylist(ctx context.Context, name string) (string, error) {
	if !s.Authenticated() {
		return "", shared.ErrNotAuthenticated
	}

	ep, err := s.endpoint(apiPlaylist)
	if err != nil {
		return "", err
	}

	payload := url.Values{}
	payload.Set("version", "2")
	payload.Set("api", apiPlaylist)
	payload.Set("method", "create")
	payload.Set("library", "personal")
	payload.Set("name", name)
	payload.Set("_sid", s.sid)

	data, err := s.doRequest(ctx, http.MethodPost, ep.Path, payload, apiPlaylist)
	if err != nil {
		return "", err
	}

	var created playlistCreateData
	if err := json.Unmarshal(data, &created); err != nil {
		return "", fmt.Errorf("%w: failed to decode create response: %v", shared.ErrAPIRequest, err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("%w: create response missing playlist id", shared.ErrAPIRequest)
	}

	return created.ID, nil
}

// AddSongsToPlaylist appends songs to an existing playlist via the
// updatesongs method. Not retried; repeating an add risks duplicates.
func (s *AudioStationService) AddSongsToPlaylist(ctx context.Context, playlistID string, songIDs []string) error {
	if !s.Authenticated() {
		return shared.ErrNotAuthenticated
	}
	if len(songIDs) == 0 {
		return fmt.Errorf("%w: no song ids to add", shared.ErrInvalidArgument)
	}

	ep, err := s.endpoint(apiPlaylist)
	if err != nil {
		return err
	}

	payload := url.Values{}
	payload.Set("version", "2")
	payload.Set("api", apiPlaylist)
	payload.Set("method", "updatesongs")
	payload.Set("id", playlistID)
	payload.Set("offset", "-1")
	payload.Set("limit", "0")
	payload.Set("songs", strings.Join(songIDs, ","))
	payload.Set("_sid", s.sid)

	_, err = s.doRequest(ctx, http.MethodPost, ep.Path, payload, apiPlaylist)
	return err
}

// doRequest performs one request against /webapi/{path} and unwraps the DSM
// envelope. Transport failures and retryable statuses come back as
// [NetworkError]; API-level failures come back as [ServerError].
func (s *AudioStationService) doRequest(ctx context.Context, method, path string, params url.Values, api string) (json.RawMessage, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	apiURL := fmt.Sprintf("%s/webapi/%s", s.host, path)

	var req *http.Request
	var err error

	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, apiURL+"?"+params.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, strings.NewReader(params.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Op: api, Err: err}
	}
	defer resp.Body.Close()

	if s.backoff.Retryable(resp.StatusCode) {
		return nil, &NetworkError{Op: api, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s status %d", shared.ErrAPIRequest, api, resp.StatusCode)
	}

	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s response: %v", shared.ErrAPIRequest, api, err)
	}

	if !envelope.Success {
		code := 0
		if envelope.Error != nil {
			code = envelope.Error.Code
		}
		return nil, &ServerError{API: api, Code: code}
	}

	return envelope.Data, nil
}

func serverError(err error) (*ServerError, bool) {
	var srv *ServerError
	if errors.As(err, &srv) {
		return srv, true
	}
	return nil, false
}
