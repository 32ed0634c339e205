package caption

import "strings"

const (
	titlePrefix       = "Title:"
	descriptionPrefix = "Description:"

	// DefaultTitle is used when no usable title can be recovered.
	DefaultTitle = "Image Caption"

	// maxTitleWords keeps a paragraph from being mistaken for a title.
	maxTitleWords = 15
)

// Caption is a short title and description for an image.
type Caption struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Extract pulls a title and description out of free-form model output.
// Labelled "Title:" / "Description:" lines are preferred; otherwise the first
// line becomes the title and the rest the description. It never fails: the
// title falls back to DefaultTitle and the description to the whole text.
//
// When several lines carry the same label the last one wins.
func Extract(text string) Caption {
	raw := strings.TrimSpace(text)

	var title, description string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, titlePrefix) {
			title = strings.TrimSpace(strings.TrimPrefix(line, titlePrefix))
		} else if strings.HasPrefix(line, descriptionPrefix) {
			description = strings.TrimSpace(strings.TrimPrefix(line, descriptionPrefix))
		}
	}

	if (title == "" || description == "") && raw != "" {
		first, rest, hasRest := strings.Cut(raw, "\n")

		if title == "" {
			candidate := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(first), titlePrefix))
			if len(strings.Fields(candidate)) <= maxTitleWords {
				title = candidate
			}
		}

		if description == "" {
			if hasRest {
				description = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rest), descriptionPrefix))
			} else {
				description = raw
			}
		}
	}

	if title == "" {
		title = DefaultTitle
	}
	if description == "" {
		description = raw
	}
	return Caption{Title: title, Description: description}
}
