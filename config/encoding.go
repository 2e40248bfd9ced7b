package config

import (
	"sort"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// ResolveEncoding finds text encoding by WHATWG label ("utf-8", "shift_jis")
// or by charmap name ("Windows 1252")
func ResolveEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return unicode.UTF8, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok && cm.String() == name {
			return cm, nil
		}
	}
	return nil, errors.Errorf("Failed to find encoding %q", name)
}

// ListEncodings returns canonical names usable as name encoding
func ListEncodings() []string {
	list := []string{"utf-8", "shift_jis", "euc-jp", "iso-2022-jp"}
	for _, enc := range charmap.All {
		if cm, ok := enc.(*charmap.Charmap); ok {
			list = append(list, cm.String())
		}
	}
	sort.Strings(list[4:])
	return list
}
