package collect

import (
	"net/url"
	"sort"
	"strings"
)

// CanonicalURL strips tracking parameters so the same posting always maps
// to the same link_vaga. Indeed links collapse to viewjob?jk=<key>.
func CanonicalURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	switch {
	case strings.Contains(u.Host, "indeed.com"):
		key := q.Get("jk")
		if key == "" {
			key = q.Get("vjk")
		}
		if key != "" {
			u.Path = "/viewjob"
			u.RawQuery = url.Values{"jk": {key}}.Encode()
			return u.String()
		}
	case strings.Contains(u.Host, "linkedin.com"):
		keep := url.Values{}
		if v := q.Get("currentJobId"); v != "" {
			keep.Set("currentJobId", v)
		}
		q = keep
	}

	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "gclid" || lk == "fbclid" ||
			lk == "trk" || lk == "refid" || lk == "trackingid" {
			q.Del(k)
		}
	}
	for k := range q {
		sort.Strings(q[k])
	}
	u.RawQuery = q.Encode()
	return u.String()
}
