package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Fetcher opens a remote model artifact for reading.
type Fetcher interface {
	Name() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// DefaultDriveBaseURL is the host serving public Drive downloads.
const DefaultDriveBaseURL = "https://drive.google.com"

// DriveFetcher downloads a file from Google Drive by its file ID. With an
// API key it goes through the Drive v3 API; without one it uses the public
// download URL and follows the large-file confirmation page.
type DriveFetcher struct {
	FileID string
	APIKey string

	// Endpoint overrides the Drive API base URL.
	Endpoint string
	// BaseURL overrides DefaultDriveBaseURL for public downloads.
	BaseURL string
	Client  *http.Client
}

func (f *DriveFetcher) Name() string { return "gdrive:" + f.FileID }

func (f *DriveFetcher) Open(ctx context.Context) (io.ReadCloser, error) {
	if f.FileID == "" {
		return nil, errors.New("GDRIVE_FILE_ID is empty")
	}
	if f.APIKey != "" {
		return f.openAPI(ctx)
	}
	return f.openPublic(ctx)
}

func (f *DriveFetcher) openAPI(ctx context.Context) (io.ReadCloser, error) {
	opts := []option.ClientOption{option.WithAPIKey(f.APIKey)}
	if f.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(f.Endpoint))
	}
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive client: %w", err)
	}
	resp, err := srv.Files.Get(f.FileID).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("drive download: %w", err)
	}
	return resp.Body, nil
}

func (f *DriveFetcher) openPublic(ctx context.Context) (io.ReadCloser, error) {
	base := strings.TrimRight(f.BaseURL, "/")
	if base == "" {
		base = DefaultDriveBaseURL
	}
	client := f.Client
	if client == nil {
		client = defaultDownloadClient()
	}

	q := url.Values{"export": {"download"}, "id": {f.FileID}}
	resp, err := httpGet(ctx, client, base+"/uc?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if !isHTML(resp) {
		return resp.Body, nil
	}

	// Files too large for virus scanning get an HTML page instead of the bytes.
	next, err := confirmURL(resp.Request.URL, resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("drive file %s: %w", f.FileID, err)
	}

	resp, err = httpGet(ctx, client, next)
	if err != nil {
		return nil, err
	}
	if isHTML(resp) {
		resp.Body.Close()
		return nil, fmt.Errorf("drive file %s is not publicly downloadable", f.FileID)
	}
	return resp.Body, nil
}

// confirmURL finds the real download link on a Drive confirmation page:
// the download form with its hidden fields, or the older confirm= link.
func confirmURL(page *url.URL, body io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("parse confirmation page: %w", err)
	}

	if form := doc.Find("form#download-form").First(); form.Length() > 0 {
		action, _ := form.Attr("action")
		target, err := page.Parse(action)
		if err != nil {
			return "", fmt.Errorf("download form action %q: %w", action, err)
		}
		q := target.Query()
		form.Find("input[type=hidden]").Each(func(_ int, in *goquery.Selection) {
			name, ok := in.Attr("name")
			if !ok || name == "" {
				return
			}
			value, _ := in.Attr("value")
			q.Set(name, value)
		})
		target.RawQuery = q.Encode()
		return target.String(), nil
	}

	if href, ok := doc.Find("a[href*='confirm=']").First().Attr("href"); ok {
		target, err := page.Parse(href)
		if err != nil {
			return "", fmt.Errorf("confirm link %q: %w", href, err)
		}
		return target.String(), nil
	}
	return "", errors.New("no download link on confirmation page; is the file shared publicly?")
}

func isHTML(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	return err == nil && mediaType == "text/html"
}

// HTTPFetcher downloads the artifact with a plain GET.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

func (f *HTTPFetcher) Name() string { return f.URL }

func (f *HTTPFetcher) Open(ctx context.Context) (io.ReadCloser, error) {
	client := f.Client
	if client == nil {
		client = defaultDownloadClient()
	}
	resp, err := httpGet(ctx, client, f.URL)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func defaultDownloadClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Minute}
}

// httpGet returns the response of a GET that answered 200 OK.
func httpGet(ctx context.Context, client *http.Client, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}
	return resp, nil
}

// EnsureLocal makes sure the model exists at path, downloading it through f
// when absent. The download goes to a temporary ".part" file that is renamed
// into place only after it has been fully written.
func EnsureLocal(ctx context.Context, f Fetcher, path string, logger *slog.Logger) error {
	if _, err := os.Stat(path); err == nil {
		logger.Info("model already exists", "path", path)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if f == nil {
		return fmt.Errorf("%w: %s not found and no download source configured", ErrModelUnavailable, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	logger.Info("model not found, downloading", "path", path, "source", f.Name())
	start := time.Now()

	n, err := download(ctx, f, path)
	if err != nil {
		return fmt.Errorf("%w: failed to download model: %v", ErrModelUnavailable, err)
	}

	logger.Info("model downloaded", "path", path, "bytes", n, "elapsed", time.Since(start))
	return nil
}

func download(ctx context.Context, f Fetcher, path string) (int64, error) {
	body, err := f.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	tmp := path + ".part"
	out, err := os.Create(tmp)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return 0, err
	}
	return n, nil
}
