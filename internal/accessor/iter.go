package accessor

import (
	"context"
	"iter"
)

// Item is one enumerated article.
type Item struct {
	URL     string
	Content []byte
}

// Articles rewinds the cursor and yields one full pass over the
// namespace. Iteration stops at the first error, which is yielded with
// a zero Item.
func (a *Accessor) Articles(ctx context.Context) iter.Seq2[Item, error] {
	return func(yield func(Item, error) bool) {
		a.Reset()
		for {
			if err := ctx.Err(); err != nil {
				yield(Item{}, err)
				return
			}
			url, content, more, err := a.NextArticle()
			if err != nil {
				yield(Item{}, err)
				return
			}
			if !yield(Item{URL: url, Content: content}, nil) || !more {
				return
			}
		}
	}
}
