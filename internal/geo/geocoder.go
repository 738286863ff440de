// File: internal/geo/geocoder.go
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"devcamper/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// DefaultURL Nominatim 搜尋端點
const DefaultURL = "https://nominatim.openstreetmap.org/search"

// ErrNoResult 地址或郵遞區號查無座標
var ErrNoResult = errors.New("no geocoding result")

// Geocoder 將地址或郵遞區號解析為座標與標準化地址
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*model.Location, error)
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

// Client 以 circuit breaker 包住對外 HTTP 呼叫
type Client struct {
	baseURL string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

func NewClient(baseURL string, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	st := gobreaker.Settings{
		Name:        "GeocoderCircuitBreaker",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,

		// 連續失敗 5 次即熔斷
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// 查無結果不算服務故障
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNoResult)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("%s state changed from %s to %s", name, from, to)
		},
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		cb:      gobreaker.NewCircuitBreaker(st),
	}
}

func (c *Client) Geocode(ctx context.Context, address string) (*model.Location, error) {
	res, err := c.cb.Execute(func() (interface{}, error) {
		return c.lookup(ctx, address)
	})
	if err != nil {
		return nil, fmt.Errorf("Geocode: %w", err)
	}
	return res.(*model.Location), nil
}

func (c *Client) lookup(ctx context.Context, address string) (*model.Location, error) {
	q := url.Values{}
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "devcamper-api/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode geocoder response: %w", err)
	}
	if len(places) == 0 {
		return nil, ErrNoResult
	}
	return places[0].location()
}

func (p nominatimPlace) location() (*model.Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", p.Lat)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", p.Lon)
	}

	a := p.Address
	city := a.City
	if city == "" {
		city = a.Town
	}
	if city == "" {
		city = a.Village
	}
	return &model.Location{
		Latitude:         lat,
		Longitude:        lng,
		FormattedAddress: p.DisplayName,
		Street:           strings.TrimSpace(a.HouseNumber + " " + a.Road),
		City:             city,
		State:            a.State,
		Zipcode:          a.Postcode,
		Country:          strings.ToUpper(a.CountryCode),
	}, nil
}
