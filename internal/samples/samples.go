// Package samples synthesizes filler highlights for sparse feeds.
//
// Generated records carry strictly negative id/book-id pairs so they can
// never collide with remote-assigned ids (always positive) and are never
// written to the database; they exist only in the in-memory feed.
package samples

import (
	"fmt"
	"time"

	"github.com/quotescroll/quotescroll/internal/entities"
)

// DefaultTarget is the feed size below which samples are mixed in.
const DefaultTarget = 50

type quote struct {
	text      string
	author    string
	bookTitle string
}

var pool = []quote{
	{
		text:      "It is only with the heart that one can see rightly; what is essential is invisible to the eye.",
		author:    "Antoine de Saint-Exupéry",
		bookTitle: "The Little Prince",
	},
	{
		text:      "The only way to do great work is to love what you do.",
		author:    "Steve Jobs",
		bookTitle: "Steve Jobs by Walter Isaacson",
	},
	{
		text:      "Be yourself; everyone else is already taken.",
		author:    "Oscar Wilde",
		bookTitle: "Oscar Wilde's Wit and Wisdom",
	},
	{
		text:      "In the midst of winter, I found there was, within me, an invincible summer.",
		author:    "Albert Camus",
		bookTitle: "Return to Tipasa",
	},
	{
		text:      "The journey of a thousand miles begins with one step.",
		author:    "Lao Tzu",
		bookTitle: "Tao Te Ching",
	},
	{
		text:      "What we think, we become.",
		author:    "Buddha",
		bookTitle: "Dhammapada",
	},
	{
		text:      "Life is what happens when you're busy making other plans.",
		author:    "John Lennon",
		bookTitle: "Beautiful Boy (Darling Boy)",
	},
	{
		text:      "The mind is everything. What you think you become.",
		author:    "Marcus Aurelius",
		bookTitle: "Meditations",
	},
	{
		text:      "The best time to plant a tree was 20 years ago. The second best time is now.",
		author:    "Chinese Proverb",
		bookTitle: "Ancient Wisdom",
	},
	{
		text:      "Happiness is not something ready made. It comes from your own actions.",
		author:    "Dalai Lama",
		bookTitle: "The Art of Happiness",
	},
}

// PoolSize is the number of built-in quotes available for augmentation.
func PoolSize() int {
	return len(pool)
}

// Generate returns synthetic highlights topping the feed up towards
// target. It is a no-op when the user already has target or more
// highlights, and never produces more than the built-in pool holds.
// The i-th sample gets id and book id -(i+1).
func Generate(existing []entities.Highlight, target int) []entities.Highlight {
	if target <= 0 {
		target = DefaultTarget
	}
	if len(existing) >= target {
		return nil
	}

	count := target - len(existing)
	if count > len(pool) {
		count = len(pool)
	}

	now := time.Now()
	generated := make([]entities.Highlight, 0, count)
	for i := 0; i < count; i++ {
		q := pool[i]
		generated = append(generated, entities.Highlight{
			ID:            -(i + 1),
			UserBookID:    -(i + 1),
			Text:          q.text,
			Note:          fmt.Sprintf("Sample quote from %q by %s. This is not your highlight - connect your Readwise account to see your own highlights!", q.bookTitle, q.author),
			Location:      0,
			LocationType:  "page",
			HighlightedAt: &now,
			CreatedAt:     now,
			Updated:       now,
			Tags:          []string{"sample", "inspiration"},
		})
	}

	return generated
}

// IsSample reports whether a highlight is synthetic filler content.
func IsSample(h entities.Highlight) bool {
	return h.ID < 0
}
