// Package release looks up the latest published release of the upstream project.
package release

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/conn-castle/toolsync/internal/failure"
	"github.com/conn-castle/toolsync/internal/messages"
)

// Registry defaults.
const (
	DefaultBaseURL   = "https://api.github.com"
	DefaultOwner     = "yt-dlp"
	DefaultRepo      = "yt-dlp"
	DefaultUserAgent = "toolsync/dev"

	maxResponseBytes = 10 << 20
	schemaURL        = "release.schema.json"
)

//go:embed release.schema.json
var releaseSchemaJSON string

var releaseSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(releaseSchemaJSON))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// Release is the latest published release and the download location of the requested artifact.
type Release struct {
	Version     string
	ArtifactURL string
	// Size is the registry-reported size of the artifact asset; 0 when not reported.
	Size   int64
	Assets []Asset
}

// Asset is one downloadable file of a release.
type Asset struct {
	Name        string
	DownloadURL string
	Size        int64
}

// FindAsset returns the asset whose name exactly equals name.
func (r Release) FindAsset(name string) (Asset, bool) {
	for _, asset := range r.Assets {
		if asset.Name == name {
			return asset, true
		}
	}
	return Asset{}, false
}

type latestReleaseResponse struct {
	TagName string       `json:"tag_name"`
	Assets  []assetEntry `json:"assets"`
}

type assetEntry struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
}

// Oracle queries a GitHub-compatible registry for the latest release.
type Oracle struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
	userAgent  string
}

// Option configures an Oracle.
type Option func(*Oracle)

// WithHTTPClient sets the HTTP client used for registry requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Oracle) {
		if c != nil {
			o.httpClient = c
		}
	}
}

// WithBaseURL overrides the registry API base URL.
func WithBaseURL(base string) Option {
	return func(o *Oracle) {
		if trimmed := strings.TrimRight(strings.TrimSpace(base), "/"); trimmed != "" {
			o.baseURL = trimmed
		}
	}
}

// WithRepo sets the project whose releases are queried.
func WithRepo(owner string, repo string) Option {
	return func(o *Oracle) {
		o.owner = owner
		o.repo = repo
	}
}

// WithUserAgent sets the client token sent in the User-Agent header; the registry rejects requests without one.
func WithUserAgent(ua string) Option {
	return func(o *Oracle) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// New returns an Oracle for yt-dlp/yt-dlp on api.github.com unless overridden.
func New(opts ...Option) *Oracle {
	o := &Oracle{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		owner:      DefaultOwner,
		repo:       DefaultRepo,
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LatestURL returns the endpoint queried by FetchLatest.
func (o *Oracle) LatestURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/latest", o.baseURL, o.owner, o.repo)
}

// FetchLatest returns the latest release and the download URL of the asset named artifactName.
// The asset name must match exactly. No retry is attempted.
func (o *Oracle) FetchLatest(ctx context.Context, artifactName string) (Release, error) {
	url := o.LatestURL()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Release{}, failure.New(failure.KindNetwork, messages.ReleaseCreateRequestOp, url, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", o.userAgent)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return Release{}, failure.New(failure.KindNetwork, messages.ReleaseFetchOp, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Release{}, &failure.Error{
			Kind: failure.KindNetwork,
			Op:   messages.ReleaseFetchOp,
			Path: url,
			Code: resp.StatusCode,
			Err:  fmt.Errorf(messages.ReleaseUnexpectedStatusFmt, resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Release{}, failure.New(failure.KindNetwork, messages.ReleaseReadBodyOp, url, err)
	}

	payload, err := parseRelease(body)
	if err != nil {
		return Release{}, err
	}

	rel := Release{Version: payload.TagName}
	for _, entry := range payload.Assets {
		rel.Assets = append(rel.Assets, Asset{Name: entry.Name, DownloadURL: entry.BrowserDownloadURL, Size: entry.Size})
	}
	asset, ok := rel.FindAsset(artifactName)
	if !ok {
		return Release{}, failure.Newf(failure.KindNotFound, messages.ReleaseAssetLookupOp, "", messages.ReleaseAssetNotFoundFmt, artifactName, rel.Version)
	}
	rel.ArtifactURL = asset.DownloadURL
	rel.Size = asset.Size
	return rel, nil
}

// parseRelease validates body against the release schema before decoding it.
func parseRelease(body []byte) (latestReleaseResponse, error) {
	schema, err := releaseSchema()
	if err != nil {
		return latestReleaseResponse{}, failure.New(failure.KindProtocol, messages.ReleaseCompileSchemaOp, "", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return latestReleaseResponse{}, failure.New(failure.KindProtocol, messages.ReleaseDecodeOp, "", err)
	}
	if err := schema.Validate(doc); err != nil {
		return latestReleaseResponse{}, failure.New(failure.KindProtocol, messages.ReleaseSchemaOp, "", err)
	}

	var payload latestReleaseResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return latestReleaseResponse{}, failure.New(failure.KindProtocol, messages.ReleaseDecodeOp, "", err)
	}
	return payload, nil
}
