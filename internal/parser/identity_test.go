package parser

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListingID(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{
			name: "plain ad link",
			link: "https://www.avto.net/oglasi/hyundai-ix35-19764152.html",
			want: "hyundai-ix35-19764152.html",
		},
		{
			name: "trailing slash",
			link: "https://www.avto.net/oglasi/19764152/",
			want: "19764152",
		},
		{
			name: "query string ignored",
			link: "https://www.avto.net/oglasi/19764152.html?utm_source=rss",
			want: "19764152.html",
		},
		{
			name: "no path falls back to raw link",
			link: "https://www.avto.net",
			want: "https://www.avto.net",
		},
		{
			name: "root path falls back to raw link",
			link: "https://www.avto.net/",
			want: "https://www.avto.net/",
		},
		{
			name: "unparsable link falls back to raw link",
			link: "http://example.com/%zz",
			want: "http://example.com/%zz",
		},
		{
			name: "relative path",
			link: "/oglasi/19764152.html",
			want: "19764152.html",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ListingID(tt.link))
		})
	}
}

func TestListingIDStableAcrossEquivalentLinks(t *testing.T) {
	id := ListingID("https://www.avto.net/oglasi/19764152.html")
	require.Equal(t, id, ListingID("https://www.avto.net/oglasi/19764152.html?priceFrom=0"))
	require.Equal(t, id, ListingID("https://www.avto.net/oglasi/19764152.html#details"))
}
