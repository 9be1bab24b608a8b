// Package httpclient talks to a running presale HTTP API. Requests can be signed
// with a wallet key so that authenticated routes accept them.
package httpclient

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gaze-network/presale/pkg/logger"
	"github.com/gaze-network/presale/pkg/middleware/walletauth"
	"github.com/valyala/fasthttp"
)

type Config struct {
	// Enable debug mode
	Debug bool

	// Default headers
	Headers map[string]string

	// Signer signs every request with the wallet auth headers.
	Signer *ecdsa.PrivateKey

	// Now is used for tests. Defaults to time.Now.
	Now func() time.Time
}

type Client struct {
	baseURL *url.URL
	Config
}

func New(baseURL string, config ...Config) (*Client, error) {
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse base url")
	}
	var cf Config
	if len(config) > 0 {
		cf = config[0]
	}
	if len(cf.Headers) == 0 {
		cf.Headers = make(map[string]string)
	}
	if cf.Now == nil {
		cf.Now = time.Now
	}
	return &Client{
		baseURL: parsedBaseURL,
		Config:  cf,
	}, nil
}

// Address returns the signer's address, zero without a signer.
func (h *Client) Address() common.Address {
	if h.Signer == nil {
		return common.Address{}
	}
	return crypto.PubkeyToAddress(h.Signer.PublicKey)
}

type RequestOptions struct {
	path   string
	method string
	Body   []byte
	Query  url.Values
	Header map[string]string
}

type HttpResponse struct {
	URL string
	fasthttp.Response
}

func (r *HttpResponse) UnmarshalBody(out any) error {
	body, err := r.BodyUncompressed()
	if err != nil {
		return errors.Wrapf(err, "can't uncompress body from %v", r.URL)
	}
	switch strings.ToLower(string(r.Header.ContentType())) {
	case "application/json", "application/json; charset=utf-8":
		if err := json.Unmarshal(body, out); err != nil {
			return errors.Wrapf(err, "can't unmarshal json body from %s, %q", r.URL, string(body))
		}
		return nil
	case "text/plain", "text/plain; charset=utf-8":
		return errors.Errorf("can't unmarshal plain text %q", string(body))
	default:
		return errors.Errorf("unsupported content type: %s, contents: %v", r.Header.ContentType(), string(r.Body()))
	}
}

// sign binds the auth message to the request, so it must run once the URI and
// body are final.
func (h *Client) sign(req *fasthttp.Request) error {
	message := walletauth.NewMessage(h.Now(), walletauth.Request{
		Method: string(req.Header.Method()),
		Path:   string(req.URI().Path()),
		Body:   req.Body(),
	})
	sig, err := crypto.Sign(walletauth.HashMessage(message), h.Signer)
	if err != nil {
		return errors.Wrap(err, "can't sign auth message")
	}
	sig[crypto.RecoveryIDOffset] += 27
	req.Header.Set(walletauth.HeaderAddress, h.Address().Hex())
	req.Header.Set(walletauth.HeaderMessage, message)
	req.Header.Set(walletauth.HeaderSignature, "0x"+hex.EncodeToString(sig))
	return nil
}

func (h *Client) request(ctx context.Context, reqOptions RequestOptions) (*HttpResponse, error) {
	start := time.Now()
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseResponse(resp)
		fasthttp.ReleaseRequest(req)
	}()

	req.Header.SetMethod(reqOptions.method)
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range reqOptions.Header {
		req.Header.Set(k, v)
	}

	parsedUrl := h.BaseURL()
	parsedUrl.Path = path.Join(parsedUrl.Path, reqOptions.path)
	parsedUrl.RawQuery = reqOptions.Query.Encode()
	url := parsedUrl.String()
	req.SetRequestURI(url)
	if reqOptions.Body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(reqOptions.Body)
	}
	if h.Signer != nil {
		if err := h.sign(req); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = fasthttp.DoDeadline(req, resp, deadline)
	} else {
		err = fasthttp.Do(req, resp)
	}
	if h.Debug {
		logger.DebugContext(ctx, "Finished make request",
			slog.String("package", "httpclient"),
			slog.String("method", reqOptions.method),
			slog.String("url", url),
			slog.Duration("duration", time.Since(start)),
			slog.Int("status_code", resp.StatusCode()),
			slog.Int("resp_content_length", len(resp.Body())),
		)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "url: %s", url)
	}

	httpResponse := HttpResponse{
		URL: url,
	}
	resp.CopyTo(&httpResponse.Response)
	return &httpResponse, nil
}

// BaseURL returns the cloned base URL of the client.
func (h *Client) BaseURL() *url.URL {
	u := *h.baseURL
	return &u
}

func (h *Client) Get(ctx context.Context, path string, reqOptions RequestOptions) (*HttpResponse, error) {
	reqOptions.path = path
	reqOptions.method = fasthttp.MethodGet
	return h.request(ctx, reqOptions)
}

func (h *Client) Post(ctx context.Context, path string, reqOptions RequestOptions) (*HttpResponse, error) {
	reqOptions.path = path
	reqOptions.method = fasthttp.MethodPost
	return h.request(ctx, reqOptions)
}

// APIError is the error body of a non-2xx presale API response.
type APIError struct {
	StatusCode int
	Message    string `json:"error"`
	Code       string `json:"code"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return e.Code + ": " + e.Message
	}
	return e.Message
}

// Result decodes `{"result": ...}` into out, or returns an *APIError for error statuses.
func (r *HttpResponse) Result(out any) error {
	if status := r.StatusCode(); status < 200 || status >= 300 {
		apiErr := &APIError{StatusCode: status}
		if err := r.UnmarshalBody(apiErr); err != nil {
			apiErr.Message = string(r.Body())
		}
		return errors.WithStack(apiErr)
	}
	envelope := struct {
		Result any `json:"result"`
	}{Result: out}
	return errors.WithStack(r.UnmarshalBody(&envelope))
}
