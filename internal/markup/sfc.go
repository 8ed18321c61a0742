// internal/markup/sfc.go
package markup

import "strings"

// SFCBlock is one top-level block of a Vue single-file component, carrying
// enough position data to translate block-relative locations back into
// file-relative ones.
type SFCBlock struct {
	Content     string
	StartOffset int
	StartLine   int // 1-based line of the first content byte
	StartCol    int // 0-based column of the first content byte
	Lang        string
}

// blockAt extracts the first depth-0 element with the given tag that has an
// explicit closing tag.
func blockAt(src, tag string) (*SFCBlock, bool) {
	elements, err := ScanHTML(src)
	if err != nil {
		return nil, false
	}
	for i := range elements {
		el := &elements[i]
		if el.Depth != 0 || el.Tag != tag || !el.HasClosing() {
			continue
		}
		line, col := PositionAt(src, el.End)
		block := &SFCBlock{
			Content:     src[el.End:el.CloseStart],
			StartOffset: el.End,
			StartLine:   line,
			StartCol:    col,
		}
		if lang, ok := el.Attr("lang"); ok {
			block.Lang = strings.ToLower(lang.Value)
		}
		return block, true
	}
	return nil, false
}

// TemplateBlock returns the <template> block of a Vue SFC.
func TemplateBlock(src string) (*SFCBlock, bool) {
	return blockAt(src, "template")
}

// ScriptBlock returns the <script> block of a Vue SFC. `<script setup>` is
// just a script block with an extra attribute as far as parsing goes.
func ScriptBlock(src string) (*SFCBlock, bool) {
	return blockAt(src, "script")
}
