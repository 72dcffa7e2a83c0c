package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const serperEndpoint = "https://google.serper.dev/search"

// SerperClient looks up company addresses through the Serper search API.
type SerperClient struct {
	apiKey string
	http   *http.Client
}

// NewSerperClient returns a client, or nil when no API key is configured
// so callers can skip the search tier entirely.
func NewSerperClient(apiKey string) *SerperClient {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	return &SerperClient{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

type serperRequest struct {
	Query    string `json:"q"`
	Country  string `json:"gl"`
	Language string `json:"hl"`
	Num      int    `json:"num"`
}

type serperResponse struct {
	KnowledgeGraph struct {
		Address          json.RawMessage `json:"address"`
		FormattedAddress string          `json:"formattedAddress"`
	} `json:"knowledgeGraph"`
	Places []struct {
		Address          string `json:"address"`
		FormattedAddress string `json:"formattedAddress"`
	} `json:"places"`
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

type structuredAddress struct {
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
	AddressCountry  string `json:"addressCountry"`
}

// SearchAddress runs two Indonesian-locale queries and mines the knowledge
// graph, local places and organic snippets for a mailing address. It
// returns "" when nothing address-like turns up.
func (c *SerperClient) SearchAddress(ctx context.Context, companyName string) (string, error) {
	name := strings.TrimSpace(companyName)
	if len(name) < 3 {
		return "", nil
	}

	queries := []string{
		name + " alamat",
		fmt.Sprintf("%q alamat kantor", name),
	}
	for _, q := range queries {
		resp, err := c.search(ctx, q)
		if err != nil {
			return "", err
		}
		if addr := extractFromResponse(resp); addr != "" {
			return addr, nil
		}
	}
	return "", nil
}

func (c *SerperClient) search(ctx context.Context, query string) (*serperResponse, error) {
	body, err := json.Marshal(serperRequest{Query: query, Country: "id", Language: "id", Num: 7})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serperEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("serper status %d", res.StatusCode)
	}

	var out serperResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("serper decode: %w", err)
	}
	return &out, nil
}

func extractFromResponse(resp *serperResponse) string {
	// The knowledge-graph address is either a plain string or a
	// structured object.
	if len(resp.KnowledgeGraph.Address) > 0 {
		var s string
		if json.Unmarshal(resp.KnowledgeGraph.Address, &s) == nil {
			if addr := cleanAddress(s); len(addr) >= 10 {
				return addr
			}
		}
		var obj structuredAddress
		if json.Unmarshal(resp.KnowledgeGraph.Address, &obj) == nil {
			parts := []string{obj.StreetAddress, obj.AddressLocality, obj.AddressRegion, obj.PostalCode, obj.AddressCountry}
			var kept []string
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					kept = append(kept, p)
				}
			}
			if addr := cleanAddress(strings.Join(kept, ", ")); len(addr) >= 10 {
				return addr
			}
		}
	}
	if addr := cleanAddress(resp.KnowledgeGraph.FormattedAddress); len(addr) >= 10 {
		return addr
	}

	if len(resp.Places) > 0 {
		p := resp.Places[0]
		addr := cleanAddress(p.Address)
		if addr == "" {
			addr = cleanAddress(p.FormattedAddress)
		}
		if len(addr) >= 10 {
			return addr
		}
	}

	for _, item := range resp.Organic {
		if addr := extractAddressFromText(item.Snippet); len(addr) >= 10 {
			return addr
		}
		if addr := extractAddressFromText(item.Title); len(addr) >= 10 {
			return addr
		}
	}
	return ""
}

var (
	addrWhitespaceRe = regexp.MustCompile(`\s+`)

	// Street-address shapes commonly seen in Indonesian search snippets.
	addrTextPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(Jl\.?\s[^.,]{5,120}(?:No\.?\s?\d+[A-Za-z/\-]?)?[^.]{0,120}(?:Jakarta|Bandung|Surabaya|Bekasi|Tangerang|Depok|Bogor|Medan|Semarang|Denpasar|Makassar)[^.,]{0,80})`),
		regexp.MustCompile(`(?i)(Rukan[^.,]{5,160}(?:Jakarta|Bekasi|Tangerang)[^.,]{0,80})`),
		regexp.MustCompile(`(?i)(Komplek[^.,]{5,160}(?:Jakarta|Bekasi|Tangerang)[^.,]{0,80})`),
		regexp.MustCompile(`(?i)(Kawasan[^.,]{5,160}(?:Jakarta|Bekasi|Tangerang)[^.,]{0,80})`),
	}
)

func cleanAddress(addr string) string {
	addr = addrWhitespaceRe.ReplaceAllString(addr, " ")
	return strings.Trim(strings.TrimSpace(addr), " ,.-")
}

func extractAddressFromText(text string) string {
	if text == "" {
		return ""
	}
	t := addrWhitespaceRe.ReplaceAllString(strings.ReplaceAll(text, "\n", " "), " ")
	for _, p := range addrTextPatterns {
		if m := p.FindStringSubmatch(t); m != nil {
			return cleanAddress(m[1])
		}
	}
	return ""
}
