package lang

import (
	"github.com/smacker/go-tree-sitter/javascript"
)

func init() {
	Languages["javascript"] = &Language{
		Name:       "javascript",
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		JSX:        true,
		lang:       javascript.GetLanguage(),
	}
}
