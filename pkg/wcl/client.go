// Package wcl is a thin client for the Warcraft Logs v1 REST API. Every
// operation issues a single GET and returns the JSON body verbatim; response
// shapes are owned by the remote service and are not modelled here.
package wcl

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/guildwatch-hq/wcl-harvester/pkg/httpclient"
)

// DefaultBaseURL is the public v1 endpoint for classic logs.
const DefaultBaseURL = "https://classic.warcraftlogs.com/v1"

const defaultTimeout = 30 * time.Second

// Client calls the Warcraft Logs v1 API. It is immutable after construction
// and safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	http    httpclient.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the default resty transport. Tests inject a stub
// through this.
func WithTransport(t httpclient.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.http = t
		}
	}
}

// New builds a client for the given base URL and secret key. An empty base
// URL selects DefaultBaseURL; an empty key fails with ErrMissingAPIKey.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(defaultTimeout)
	}
	return c, nil
}

// Zones lists the game's raid and dungeon zones; each zone carries its own
// encounter set.
func (c *Client) Zones(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/zones", nil)
}

// Classes lists the game's character classes.
func (c *Client) Classes(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/classes", nil)
}

// EncounterRankings fetches rankings for a single encounter. Optional params:
// metric, size, difficulty, partition, class, spec, bracket, server, region,
// page, filter.
func (c *Client) EncounterRankings(ctx context.Context, encounterID int, params *Params) (json.RawMessage, error) {
	if encounterID <= 0 {
		return nil, &ArgumentError{Name: "encounterID"}
	}
	return c.get(ctx, joinPath("rankings", "encounter", strconv.Itoa(encounterID)), params)
}

// CharacterRankings fetches per-fight ranks for one character. The server is
// its slug form; region is one of US, EU, KR, TW, CN. Optional params: zone,
// encounter, metric, bracket, partition, timeframe.
func (c *Client) CharacterRankings(ctx context.Context, name, server, region string, params *Params) (json.RawMessage, error) {
	if err := requireArgs("characterName", name, "serverName", server, "serverRegion", region); err != nil {
		return nil, err
	}
	return c.get(ctx, joinPath("rankings", "character", name, server, region), params)
}

// CharacterParses fetches every parse for a character across all specs, not
// just ranked ones. Optional params: zone, encounter, metric, bracket,
// compare, partition, timeframe.
func (c *Client) CharacterParses(ctx context.Context, name, server, region string, params *Params) (json.RawMessage, error) {
	if err := requireArgs("characterName", name, "serverName", server, "serverRegion", region); err != nil {
		return nil, err
	}
	return c.get(ctx, joinPath("parses", "character", name, server, region), params)
}

// GuildReports lists calendar reports uploaded for a guild. Optional params:
// start, end (Unix milliseconds).
func (c *Client) GuildReports(ctx context.Context, guild, server, region string, params *Params) (json.RawMessage, error) {
	if err := requireArgs("guildName", guild, "serverName", server, "serverRegion", region); err != nil {
		return nil, err
	}
	return c.get(ctx, joinPath("reports", "guild", guild, server, region), params)
}

// UserReports lists calendar reports from a user's personal logs. Optional
// params: start, end.
func (c *Client) UserReports(ctx context.Context, user string, params *Params) (json.RawMessage, error) {
	if err := requireArgs("userName", user); err != nil {
		return nil, err
	}
	return c.get(ctx, joinPath("reports", "user", user), params)
}

// ReportFights returns the fights and participants of a report; each fight is
// a single pull. Optional params: translate.
func (c *Client) ReportFights(ctx context.Context, code string, params *Params) (json.RawMessage, error) {
	if err := requireArgs("code", code); err != nil {
		return nil, err
	}
	return c.get(ctx, joinPath("report", "fights", code), params)
}

// ReportEvents returns the event stream of a report for the given view
// (summary, damage-done, damage-taken, healing, casts, summons, buffs,
// debuffs, deaths, threat, resources, interrupts, dispels). Optional params:
// start, end, hostility, sourceid, sourceinstance, sourceclass, targetid,
// targetinstance, targetclass, abilityid, death, options, cutoff, encounter,
// wipes, difficulty, filter, translate.
func (c *Client) ReportEvents(ctx context.Context, view, code string, params *Params) (json.RawMessage, error) {
	if err := requireArgs("view", view, "code", code); err != nil {
		return nil, err
	}
	return c.get(ctx, joinPath("report", "events", view, code), params)
}

// ReportTables returns a damage/healing/cast table for the given view. The
// remote shape tracks the site's table panes and is not frozen. Optional
// params: the ReportEvents family plus by.
func (c *Client) ReportTables(ctx context.Context, view, code string, params *Params) (json.RawMessage, error) {
	if err := requireArgs("view", view, "code", code); err != nil {
		return nil, err
	}
	return c.get(ctx, joinPath("report", "tables", view, code), params)
}

// get performs the shared request cycle: assemble the URL, append the secret
// key last, issue the GET, and hand the body back once it checks out as JSON.
func (c *Client) get(ctx context.Context, path string, params *Params) (json.RawMessage, error) {
	var b strings.Builder
	b.WriteString(c.baseURL)
	b.WriteString(path)
	b.WriteByte('?')
	if params.Len() > 0 {
		params.encode(&b)
		b.WriteByte('&')
	}
	b.WriteString("api_key=")
	b.WriteString(url.QueryEscape(c.apiKey))

	resp, err := c.http.Get(ctx, b.String(), nil)
	if err != nil {
		return nil, &TransportError{Path: path, Err: err}
	}

	body := resp.Body()
	if code := resp.StatusCode(); code < 200 || code > 299 {
		return nil, &StatusError{Path: path, StatusCode: code, Body: body}
	}
	if !json.Valid(body) {
		return nil, &DecodeError{Path: path, Body: body}
	}
	return json.RawMessage(body), nil
}

// joinPath percent-encodes each identifier and joins them into a rooted path.
func joinPath(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// requireArgs takes name/value pairs and reports the first empty value.
func requireArgs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return &ArgumentError{Name: pairs[i]}
		}
	}
	return nil
}
