package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/vitistack/dnsmasq-hosts/pkg/rest"
)

// Builder assembles requests against one base URL, e.g. http://127.0.0.1:3000
type Builder struct {
	base      string
	path      string
	urlParams url.Values
	method    string
	header    http.Header
	body      []byte
	ctx       context.Context
	err       error
}

func NewBuilder(base string) *Builder {
	return &Builder{
		base:      strings.TrimSuffix(base, "/"),
		urlParams: make(url.Values),
		header:    make(http.Header),
		method:    http.MethodGet, // default method
		ctx:       context.Background(),
	}
}

func (b *Builder) Build() (*http.Request, error) {
	if b.err != nil {
		return nil, b.err
	}

	reqURL := b.base + b.path
	if len(b.urlParams) > 0 {
		reqURL += "?" + b.urlParams.Encode()
	}

	var body io.Reader
	if b.body != nil {
		body = bytes.NewReader(b.body) // lets http.NewRequest set GetBody for retries
	}
	req, err := http.NewRequestWithContext(b.ctx, b.method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("unable to build request: %w", err)
	}

	for key := range b.header {
		req.Header.Set(key, b.header.Get(key))
	}

	return req, nil
}

func (b *Builder) URL(path string) *Builder {
	b.path = path
	return b
}

func (b *Builder) QueryParameter(key, val string) *Builder {
	b.urlParams.Add(key, val)
	return b
}

func (b *Builder) GET() *Builder {
	b.method = http.MethodGet
	return b
}

func (b *Builder) POST() *Builder {
	b.method = http.MethodPost
	return b
}

func (b *Builder) SetHeader(key, val string) *Builder {
	b.header.Set(key, val)
	return b
}

func (b *Builder) WithJSONContentType() *Builder {
	b.SetHeader("Content-Type", rest.ContentTypeJSON)
	return b
}

// Body serializes body as JSON. A marshal error is returned from Build.
func (b *Builder) Body(body any) *Builder {
	data, err := json.Marshal(body)
	if err != nil {
		b.err = fmt.Errorf("unable to marshal request body: %w", err)
		return b
	}
	b.body = data
	b.WithJSONContentType()
	return b
}

func (b *Builder) CTX(ctx context.Context) *Builder {
	b.ctx = ctx
	return b
}
