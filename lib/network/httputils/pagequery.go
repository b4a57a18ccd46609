package httputils

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"agora.network/agora/lib/common"
	"agora.network/agora/lib/errors"
	"agora.network/agora/lib/network/api/resource"
	"agora.network/agora/lib/storage"
)

const DefaultMaxLimit uint64 = 100

// PageQuery parses the cursor/limit/reverse paging parameters of a list
// request and builds the paging links of the response.
type PageQuery struct {
	request *http.Request
	cursor  []byte
	reverse bool
	limit   uint64
}

func NewPageQuery(r *http.Request) (*PageQuery, error) {
	p := &PageQuery{
		request: r,
		limit:   DefaultMaxLimit,
	}
	err := p.parseRequest()
	return p, err
}

func (p *PageQuery) Limit() uint64 {
	return p.limit
}

func (p *PageQuery) Reverse() bool {
	return p.reverse
}

func (p *PageQuery) Cursor() []byte {
	return p.cursor
}

func (p *PageQuery) WalkOption() *storage.WalkOption {
	return storage.NewWalkOption(string(p.cursor), p.limit, p.reverse)
}

func (p *PageQuery) SelfLink() string {
	return p.request.URL.String()
}

func (p *PageQuery) PrevLink(cursor []byte) string {
	path := p.request.URL.Path
	query := p.urlValues(cursor, true).Encode()
	return fmt.Sprintf("%s?%s", path, query)
}

func (p *PageQuery) NextLink(cursor []byte) string {
	path := p.request.URL.Path
	query := p.urlValues(cursor, false).Encode()
	return fmt.Sprintf("%s?%s", path, query)
}

func (p *PageQuery) ResourceList(rs []resource.Resource, firstCursor, lastCursor []byte) *resource.ResourceList {
	return resource.NewResourceList(rs, p.SelfLink(), p.NextLink(lastCursor), p.PrevLink(firstCursor))
}

func (p *PageQuery) parseRequest() error {
	q := p.request.URL.Query()
	if r := q.Get("reverse"); r != "" {
		reverse, err := common.ParseBoolQueryString(r)
		if err != nil {
			return err
		}
		p.reverse = reverse
	}
	if c := q.Get("cursor"); c != "" {
		p.cursor = []byte(c)
	}
	if l := q.Get("limit"); l != "" {
		limit, err := strconv.ParseUint(l, 10, 64)
		if err != nil {
			return errors.InvalidQueryString.Clone().SetData("limit", l)
		}
		if limit > DefaultMaxLimit {
			return errors.InvalidQueryString.Clone().SetData("limit", l)
		}
		p.limit = limit
	}
	return nil
}

func (p PageQuery) urlValues(cursor []byte, reverse bool) url.Values {
	v := url.Values{
		"reverse": []string{strconv.FormatBool(reverse)},
	}

	if len(cursor) > 0 {
		v.Set("cursor", string(cursor))
	}
	if p.limit > 0 {
		v.Set("limit", strconv.FormatUint(p.limit, 10))
	}

	return v
}
