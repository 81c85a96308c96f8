package desktop

import (
	"github.com/atotto/clipboard"

	"sigsetup/internal/domain"
)

// SystemClipboard copies via the OS clipboard (pbcopy, xclip/xsel underneath).
type SystemClipboard struct{}

// Copy puts text on the system clipboard.
func (SystemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Compile-time assertion that SystemClipboard implements domain.Clipboard.
var _ domain.Clipboard = SystemClipboard{}
