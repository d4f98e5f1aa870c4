// Package fetch retrieves one batch of meeting records from the remote meeting directory.
//
// The directory client is callback-based: MeetingSearch returns immediately and reports its
// outcome through a completion func, exactly once. Fetch bridges that into a blocking call.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hpungsan/meetcorpus/internal/errors"
	"github.com/hpungsan/meetcorpus/internal/meeting"
)

// SearchSpecification narrows a directory search. The zero value searches everything.
type SearchSpecification struct {
	Weekdays   []int  // 1..7, 1 = Sunday
	ServerIDs  []uint64
	SearchText string
	MaxResults int
}

// query encodes the specification as URL parameters. Unset fields are omitted.
func (s SearchSpecification) query() url.Values {
	v := url.Values{}
	for _, d := range s.Weekdays {
		v.Add("weekdays[]", strconv.Itoa(d))
	}
	for _, id := range s.ServerIDs {
		v.Add("services[]", strconv.FormatUint(id, 10))
	}
	if s.SearchText != "" {
		v.Set("search_text", s.SearchText)
	}
	if s.MaxResults > 0 {
		v.Set("max_results", strconv.Itoa(s.MaxResults))
	}
	return v
}

// SearchResults is one completed directory search.
type SearchResults struct {
	Meta     map[string]any
	Meetings []meeting.Record
}

// Completion receives the outcome of a search. Exactly one of results and err is non-nil.
type Completion func(results *SearchResults, err error)

// Searcher is the callback-style directory interface.
type Searcher interface {
	MeetingSearch(ctx context.Context, spec SearchSpecification, completion Completion)
}

// Client talks to the directory over HTTP.
type Client struct {
	serverURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient returns a Client for the directory entry point at serverURL.
func NewClient(serverURL string, opts ...Option) *Client {
	c := &Client{
		serverURL:  serverURL,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MeetingSearch issues one GET in a new goroutine and calls completion when it finishes.
func (c *Client) MeetingSearch(ctx context.Context, spec SearchSpecification, completion Completion) {
	go func() {
		results, err := c.search(ctx, spec)
		if err != nil {
			completion(nil, err)
			return
		}
		completion(results, nil)
	}()
}

func (c *Client) search(ctx context.Context, spec SearchSpecification) (*SearchResults, error) {
	endpoint, err := url.Parse(c.serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	q := endpoint.Query()
	for k, vs := range spec.query() {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search failed with status %d", resp.StatusCode)
	}

	var body wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	meetings, err := convertMeetings(body.Meetings)
	if err != nil {
		return nil, err
	}
	return &SearchResults{Meta: body.Meta, Meetings: meetings}, nil
}

// DecodeMeetings decodes a JSON array of meetings in the directory's wire shape and
// normalizes them exactly as a search response is normalized.
func DecodeMeetings(data []byte) ([]meeting.Record, error) {
	var wire []wireMeeting
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	return convertMeetings(wire)
}

func convertMeetings(wire []wireMeeting) ([]meeting.Record, error) {
	var records []meeting.Record
	for i := range wire {
		rec, err := wire[i].record()
		if err != nil {
			return nil, fmt.Errorf("meeting %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Fetch runs one search with the default specification and blocks until its single result
// arrives. A failure after ctx is done is CANCELLED. Any other failure, or a batch with
// no meetings, is FETCH_UNAVAILABLE.
func Fetch(ctx context.Context, s Searcher, logger *zap.Logger) ([]meeting.Record, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	type outcome struct {
		results *SearchResults
		err     error
	}
	done := make(chan outcome, 1)
	s.MeetingSearch(ctx, SearchSpecification{}, func(results *SearchResults, err error) {
		done <- outcome{results, err}
	})
	out := <-done

	if out.err != nil {
		if ctx.Err() != nil {
			logger.Warn("meeting search cancelled", zap.Error(out.err))
			return nil, errors.NewCancelled("fetch")
		}
		logger.Error("meeting search failed", zap.Error(out.err))
		return nil, errors.NewFetchUnavailable(out.err)
	}
	if out.results == nil || len(out.results.Meetings) == 0 {
		logger.Error("meeting search returned no meetings")
		return nil, errors.NewFetchUnavailable(nil)
	}

	logger.Info("meeting search complete", zap.Int("records", len(out.results.Meetings)))
	return out.results.Meetings, nil
}

// wireResponse is the directory's JSON envelope. An absent meetings key decodes to an
// empty batch, which Fetch rejects.
type wireResponse struct {
	Meta     map[string]any `json:"meta"`
	Meetings []wireMeeting  `json:"meetings"`
}

// wireMeeting is one meeting as the directory sends it. ID is only honored when the
// server and meeting ids are both absent, as in records exported by this tool.
type wireMeeting struct {
	ID                 *uint64              `json:"id"`
	ServerID           uint64               `json:"server_id"`
	MeetingID          uint64               `json:"meeting_id"`
	Name               string               `json:"name"`
	MeetingType        string               `json:"meeting_type"`
	Organization       meeting.Organization `json:"organization"`
	Weekday            int                  `json:"weekday"`
	StartTime          string               `json:"start_time"`
	Duration           int64                `json:"duration"`
	TimeZone           string               `json:"time_zone"`
	Formats            []meeting.Format     `json:"formats"`
	PhysicalAddress    *meeting.Address     `json:"physical_address"`
	Coords             *meeting.Coordinates `json:"coords"`
	VirtualURL         string               `json:"virtual_url"`
	VirtualPhoneNumber string               `json:"virtual_phone_number"`
	VirtualInfo        string               `json:"virtual_info"`
	LocationInfo       string               `json:"location_info"`
	Comments           string               `json:"comments"`
}

func (w *wireMeeting) record() (meeting.Record, error) {
	start, err := meeting.ParseTimeOfDay(w.StartTime)
	if err != nil {
		return meeting.Record{}, err
	}

	rec := meeting.Record{
		ID:                 meeting.CompoundID(w.ServerID, w.MeetingID),
		ServerID:           w.ServerID,
		MeetingID:          w.MeetingID,
		Name:               strings.TrimSpace(w.Name),
		Organization:       w.Organization,
		Weekday:            w.Weekday,
		StartTime:          start,
		Duration:           w.Duration,
		TimeZone:           w.TimeZone,
		PhysicalAddress:    w.PhysicalAddress,
		LocationInfo:       strings.TrimSpace(w.LocationInfo),
		Coords:             w.Coords,
		VirtualURL:         strings.TrimSpace(w.VirtualURL),
		VirtualPhoneNumber: strings.TrimSpace(w.VirtualPhoneNumber),
		VirtualInfo:        strings.TrimSpace(w.VirtualInfo),
		Comments:           strings.TrimSpace(w.Comments),
		Formats:            w.Formats,
	}
	if w.ServerID == 0 && w.MeetingID == 0 && w.ID != nil {
		rec.ID = *w.ID
	}
	if rec.Organization == "" {
		rec.Organization = meeting.OrganizationUnknown
	}
	if strings.TrimSpace(w.MeetingType) == "" {
		rec.Type = rec.DeriveType()
	} else if rec.Type, err = meeting.ParseType(w.MeetingType); err != nil {
		return meeting.Record{}, err
	}
	return rec, nil
}
