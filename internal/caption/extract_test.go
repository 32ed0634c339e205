package caption

import (
	"strings"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	longLine := strings.Repeat("word ", 16) + "end"

	tests := []struct {
		name string
		text string
		want Caption
	}{
		// Well-formed labels.
		{
			name: "labelled",
			text: "Title: Sunset Over Mountains\nDescription: A warm sunset over a range.",
			want: Caption{Title: "Sunset Over Mountains", Description: "A warm sunset over a range."},
		},
		{
			name: "labelled reversed order",
			text: "Description: Two cats asleep.\nTitle: Sleeping Cats",
			want: Caption{Title: "Sleeping Cats", Description: "Two cats asleep."},
		},
		{
			name: "labelled with padding and blank lines",
			text: "\n  Title:   Busy Street  \n\n   Description:  Cars and people.  \n",
			want: Caption{Title: "Busy Street", Description: "Cars and people."},
		},
		{
			name: "last label wins",
			text: "Title: First\nTitle: Second\nDescription: One\nDescription: Two",
			want: Caption{Title: "Second", Description: "Two"},
		},
		{
			name: "labels are case sensitive",
			text: "title: lower\ndescription: lower desc",
			want: Caption{Title: "title: lower", Description: "description: lower desc"},
		},

		// Unlabelled fallbacks.
		{
			name: "two plain lines",
			text: "A Quiet Harbor\nFishing boats moored at dawn.",
			want: Caption{Title: "A Quiet Harbor", Description: "Fishing boats moored at dawn."},
		},
		{
			name: "plain first line with multi-line rest",
			text: "Market Day\nStalls line the square.\nPeople browse produce.",
			want: Caption{Title: "Market Day", Description: "Stalls line the square.\nPeople browse produce."},
		},
		{
			name: "title only",
			text: "Title: Lonely Tree",
			want: Caption{Title: "Lonely Tree", Description: "Title: Lonely Tree"},
		},
		{
			name: "description only labelled on second line",
			text: "Forest Trail\nDescription: A path winds through pines.",
			want: Caption{Title: "Forest Trail", Description: "A path winds through pines."},
		},
		{
			name: "title label then unlabelled description",
			text: "Title: Old Bridge\nA stone bridge over a river.",
			want: Caption{Title: "Old Bridge", Description: "A stone bridge over a river."},
		},
		{
			name: "single short line",
			text: "Just a dog",
			want: Caption{Title: "Just a dog", Description: "Just a dog"},
		},
		{
			name: "long paragraph is not a title",
			text: longLine,
			want: Caption{Title: DefaultTitle, Description: longLine},
		},
		{
			name: "long first line keeps second as description",
			text: longLine + "\nSecond line.",
			want: Caption{Title: DefaultTitle, Description: "Second line."},
		},
		{
			name: "exactly fifteen words is a title",
			text: strings.TrimSpace(strings.Repeat("w ", 15)) + "\nrest",
			want: Caption{Title: strings.TrimSpace(strings.Repeat("w ", 15)), Description: "rest"},
		},
		{
			name: "empty title label falls back to default",
			text: "Title:\nDescription: Something here.",
			want: Caption{Title: DefaultTitle, Description: "Something here."},
		},

		// Degenerate input never fails.
		{name: "empty", text: "", want: Caption{Title: DefaultTitle, Description: ""}},
		{name: "whitespace", text: " \n\t\n ", want: Caption{Title: DefaultTitle, Description: ""}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tc.text)
			if got != tc.want {
				t.Errorf("Extract(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractNonEmptyForNonEmptyInput(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"x",
		"Title:",
		"Description:",
		"Title:\nDescription:",
		"\n\nlate start",
		"Description: only\n",
	}
	for _, in := range inputs {
		got := Extract(in)
		if got.Title == "" || got.Description == "" {
			t.Errorf("Extract(%q) = %+v, want both fields non-empty", in, got)
		}
	}
}
