// internal/requestinfo/requestinfo.go
//
// Lightweight per-request metadata: user-agent fingerprint, IP with
// optional geolocation, URL, and timestamp.  The structs are inert—no
// database handles, no large buffers—so they are safe to log or
// JSON-encode.
//
// Dependencies
// • github.com/avct/uasurfer          (UA parsing)
// • github.com/oschwald/geoip2-golang (MaxMind lookup, optional)

package requestinfo

import (
	"context"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// UA holds the parsed user-agent properties the engine cares about.
type UA struct {
	Raw     string // Entire User-Agent header
	Browser string // "Chrome", "Firefox", "Safari", …
	OS      string // "macOS", "Windows", "Android", …
	Device  string // "Desktop", "Phone", "Tablet", …
	IsBot   bool   // True when the UA matches a crawler signature
}

// Geo holds best-effort IP geolocation hints; empty when the MaxMind DB
// is not configured or has no match.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// RequestInfo is stored in the request context by Enrich.
type RequestInfo struct {
	UA        UA
	Geo       Geo
	URL       *url.URL
	Timestamp time.Time
}

// geoReader is a singleton MaxMind handle; safe for concurrent reads,
// which is all we perform.  Nil when geo lookups are disabled.
var geoReader *geoip2.Reader

// InitGeo opens the GeoLite2-City database.  Call from main() when a path
// is configured; skipping it simply disables geo enrichment.
func InitGeo(dbPath string) error {
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return err
	}
	geoReader = r
	return nil
}

type ctxKey struct{} // unexported, collision-proof

// FromContext returns the pointer previously stored by Enrich, or nil if
// the middleware has not run.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// parseUA converts a raw header into our UA struct using uasurfer.
func parseUA(header string) UA {
	u := uasurfer.Parse(header)
	return UA{
		Raw:     header,
		Browser: strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		OS:      strings.TrimPrefix(u.OS.Name.String(), "OS"),
		Device:  strings.TrimPrefix(u.DeviceType.String(), "Device"),
		IsBot:   u.IsBot(),
	}
}

// lookupGeo returns best-effort Geo data using the global reader.
func lookupGeo(ip net.IP) Geo {
	if geoReader == nil || ip == nil {
		return Geo{IP: ip}
	}
	rec, err := geoReader.City(ip)
	if err != nil {
		return Geo{IP: ip}
	}
	return Geo{
		IP:         ip,
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}
