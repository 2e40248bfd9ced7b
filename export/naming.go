package export

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

var monsterName = regexp.MustCompile(`(?i)^(MONS_)(\d+)(\..+)$`)

const monsterIdDigits = 5

// FileName converts record name into png file name.
// Monster ids are zero padded, any other extension is replaced by .png.
func FileName(name string) string {
	if m := monsterName.FindStringSubmatch(name); m != nil {
		id := m[2]
		if len(id) < monsterIdDigits {
			id = strings.Repeat("0", monsterIdDigits-len(id)) + id
		}
		name = m[1] + id + m[3]
	}

	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', 0:
			return '_'
		}
		return r
	}, name)
	if name == "" {
		name = "unnamed"
	}

	ext := filepath.Ext(name)
	if strings.EqualFold(ext, ".png") {
		return name
	}
	return strings.TrimSuffix(name, ext) + ".png"
}

// names hands out unique file paths, "name (n).png" for repeats
type names struct {
	mu   sync.Mutex
	used map[string]int
}

func (n *names) reserve(dir, file string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.used == nil {
		n.used = make(map[string]int)
	}
	key := filepath.Join(dir, file)
	seen, ok := n.used[key]
	if !ok {
		n.used[key] = 1
		return key
	}

	ext := filepath.Ext(file)
	for i := seen; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(file, ext), i, ext))
		if _, taken := n.used[candidate]; !taken {
			n.used[key] = i + 1
			n.used[candidate] = 1
			return candidate
		}
	}
}
