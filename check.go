package main

import (
	"log"

	"github.com/mogaika/pad_texture_tool/extractor"
)

// checkNames logs logical images sharing one name, their files would get " (n)" suffixes
func checkNames(source string, res *extractor.Result) int {
	conflicts := 0
	for i, img := range res.Images {
		for _, other := range res.Images[:i] {
			if other.Name == img.Name {
				log.Printf("Conflicting name %q in %s: records %v and %v", img.Name, source, other.Records, img.Records)
				conflicts++
				break
			}
		}
	}
	return conflicts
}
