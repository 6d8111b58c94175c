package client

import (
	"net/url"
	"strconv"

	"github.com/pharmalink/pharmalink/internal/core/domain"
)

// pageQuery carries page and per_page when set; zero values leave the
// service defaults.
func pageQuery(p domain.PageRequest) url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(p.PerPage))
	}
	return q
}

// setIf adds key only for non-empty values so filters left blank stay off the wire.
func setIf(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func idPath(prefix string, id int64, suffix string) string {
	return prefix + "/" + strconv.FormatInt(id, 10) + suffix
}
