package corpus

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	perr "shopkeeper/internal/platform/errors"
)

// policyHTTPTimeout bounds each startup fetch; a slow API must not stall boot
const policyHTTPTimeout = 10 * time.Second

var policyClient = &http.Client{Timeout: policyHTTPTimeout}

// PolicyJSONAPI loads support-program rows from the JSON open-data endpoint.
// Each row carries agency, program and age fields that are projected into a
// fixed-template text
type PolicyJSONAPI struct {
	URL        string
	ServiceKey string
	Page       int
	PerPage    int
}

// Name implements Source
func (p PolicyJSONAPI) Name() string { return "policy-json-api" }

type policyJSONRow struct {
	Agency  string `json:"기관명"`
	Program string `json:"사업명"`
	Age     string `json:"연령"`
}

type policyJSONResp struct {
	Data []policyJSONRow `json:"data"`
}

// Load implements Source
func (p PolicyJSONAPI) Load(ctx context.Context) ([]Record, error) {
	page, per := p.Page, p.PerPage
	if page <= 0 {
		page = 1
	}
	if per <= 0 {
		per = 30
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("perPage", strconv.Itoa(per))
	q.Set("serviceKey", p.ServiceKey)

	raw, err := fetch(ctx, p.URL, q)
	if err != nil {
		return nil, err
	}

	var resp policyJSONResp
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "parse policy json")
	}

	out := make([]Record, 0, len(resp.Data))
	for _, row := range resp.Data {
		out = append(out, NewPolicy(fmt.Sprintf("%s %s %s 지원정책", row.Agency, row.Program, row.Age)))
	}
	return out, nil
}

// PolicyXMLAPI loads announcement rows from the XML open-data endpoint, whose
// items carry named col elements
type PolicyXMLAPI struct {
	URL        string
	ServiceKey string
	PageNo     int
	NumOfRows  int
}

// Name implements Source
func (p PolicyXMLAPI) Name() string { return "policy-xml-api" }

type policyXMLCol struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

type policyXMLItem struct {
	Cols []policyXMLCol `xml:"col"`
}

type policyXMLBody struct {
	Items []policyXMLItem `xml:"body>items>item"`
}

// Load implements Source
func (p PolicyXMLAPI) Load(ctx context.Context) ([]Record, error) {
	page, rows := p.PageNo, p.NumOfRows
	if page <= 0 {
		page = 1
	}
	if rows <= 0 {
		rows = 30
	}

	q := url.Values{}
	q.Set("serviceKey", p.ServiceKey)
	q.Set("pageNo", strconv.Itoa(page))
	q.Set("numOfRows", strconv.Itoa(rows))

	raw, err := fetch(ctx, p.URL, q)
	if err != nil {
		return nil, err
	}

	var body policyXMLBody
	if err := xml.Unmarshal(raw, &body); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "parse policy xml")
	}

	out := make([]Record, 0, len(body.Items))
	for _, item := range body.Items {
		fields := make(map[string]string, len(item.Cols))
		for _, col := range item.Cols {
			fields[col.Name] = col.Value
		}
		// template kept byte-compatible with the legacy projection
		text := fmt.Sprintf("%s %s %s창업지원",
			fields["pbanc_ntrp_nm"], fields["intg_pbanc_biz_nm"], fields["biz_trgt_age"])
		out = append(out, NewPolicy(text))
	}
	return out, nil
}

func fetch(ctx context.Context, rawURL string, q url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnknown, "build policy request")
	}

	resp, err := policyClient.Do(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "policy api call")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, "read policy response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, perr.Upstreamf("policy api returned %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
