package chunk

import "fmt"

// Window is a single split of a message text: the rune offset where it starts
// and the covered text.
type Window struct {
	Offset int
	Text   string
}

// Split cuts text into overlapping rune windows of at most size runes, each
// consecutive pair sharing overlap runes. Windows cover the whole text and the
// final window may be shorter than size.
//
// The stride is size-overlap, so concatenating the first window with every
// subsequent window minus its first overlap runes reconstructs the text exactly.
// No trimming or boundary snapping happens here: retrieval depends on the
// split being reconstructible.
func Split(text string, size, overlap int) ([]Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d for size %d", overlap, size)
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []Window{{Offset: 0, Text: text}}, nil
	}

	stride := size - overlap
	windows := make([]Window, 0, (len(runes)+stride-1)/stride)
	for start := 0; ; start += stride {
		end := start + size
		if end >= len(runes) {
			windows = append(windows, Window{Offset: start, Text: string(runes[start:])})
			break
		}
		windows = append(windows, Window{Offset: start, Text: string(runes[start:end])})
	}
	return windows, nil
}

// Join reconstructs the original text from windows produced by Split with the
// given overlap. Inverse of Split; used to verify the split policy.
func Join(windows []Window, overlap int) string {
	if len(windows) == 0 {
		return ""
	}
	out := []rune(windows[0].Text)
	for _, w := range windows[1:] {
		r := []rune(w.Text)
		if len(r) > overlap {
			out = append(out, r[overlap:]...)
		}
	}
	return string(out)
}
