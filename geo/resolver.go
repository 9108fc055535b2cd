package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

const defaultAPIURL = "http://ip-api.com/json/%s"

// DevInfo is returned for loopback and placeholder addresses so local
// traffic never triggers a network lookup.
var DevInfo = GeoInfo{Country: "Development", CountryCode: "DEV"}

// UnknownInfo is the fallback when the upstream lookup fails in any way.
var UnknownInfo = GeoInfo{Country: "Unknown", CountryCode: "XX"}

// Resolver turns client IPs into GeoInfo. Resolution is best effort and
// never returns an error: upstream failures degrade to UnknownInfo. Both
// success and fallback results are cached, so a given IP costs at most one
// upstream call per cache lifetime. One attempt, no retries.
type Resolver struct {
	cache  Cache
	client *http.Client
	apiURL string
}

func NewResolver(cache Cache) *Resolver {
	apiURL := os.Getenv("GEO_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	return &Resolver{
		cache:  cache,
		client: &http.Client{Timeout: 3 * time.Second},
		apiURL: apiURL,
	}
}

func isDevAddress(ip string) bool {
	switch ip {
	case "", "unknown", "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// upstream response shape of ip-api.com; status is "success" or "fail".
type lookupResponse struct {
	Status      string `json:"status"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
	RegionName  string `json:"regionName"`
	Timezone    string `json:"timezone"`
}

func (r *Resolver) Resolve(ctx context.Context, ip string) GeoInfo {
	if isDevAddress(ip) {
		return DevInfo
	}

	if info, ok := r.cache.Get(ctx, ip); ok {
		return info
	}

	info := r.lookup(ctx, ip)
	r.cache.Set(ctx, ip, info)
	return info
}

func (r *Resolver) lookup(ctx context.Context, ip string) GeoInfo {
	url := fmt.Sprintf(r.apiURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("geo: building lookup request for %s: %v", ip, err)
		return UnknownInfo
	}

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("geo: lookup failed for %s: %v", ip, err)
		return UnknownInfo
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("geo: lookup for %s returned status %d", ip, resp.StatusCode)
		return UnknownInfo
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("geo: decoding lookup response for %s: %v", ip, err)
		return UnknownInfo
	}
	if body.Status != "success" || body.Country == "" {
		return UnknownInfo
	}

	return GeoInfo{
		Country:     body.Country,
		CountryCode: body.CountryCode,
		City:        body.City,
		Region:      body.RegionName,
		Timezone:    body.Timezone,
	}
}
