// Package search maintains a session-resident full-text index over the
// transcript. The index lives entirely in memory and dies with the
// session: nothing is ever persisted.
package search

import (
	"chat-client/domain"
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/blugelabs/bluge"
)

// Match is one search hit, reconstructed from stored fields.
type Match struct {
	ID     string
	Author string
	Value  string
}

// Query carries the parsed parameters of a transcript search.
type Query struct {
	RawInput string
	Terms    string
	Author   string
	Limit    int
}

// ParseQuery extracts command-line style arguments from a raw input.
// Example: noob alert --author bob --limit 5
func ParseQuery(input string) *Query {
	query := &Query{RawInput: input, Limit: 10}

	parts := strings.Fields(input)
	var terms []string
	for i := 0; i < len(parts); i++ {
		if strings.HasPrefix(parts[i], "--") && i+1 < len(parts) {
			switch strings.TrimPrefix(parts[i], "--") {
			case "author":
				query.Author = parts[i+1]
			case "limit":
				if limit, err := strconv.Atoi(parts[i+1]); err == nil && limit > 0 {
					query.Limit = limit
				}
			}
			i++
			continue
		}
		terms = append(terms, parts[i])
	}
	query.Terms = strings.Join(terms, " ")
	return query
}

// Transcript indexes text entries as they arrive.
type Transcript struct {
	mu     sync.Mutex
	writer *bluge.Writer
}

func NewTranscript() (*Transcript, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &Transcript{writer: writer}, nil
}

// Index adds one entry to the index. Only text entries are searchable;
// images and notices are ignored.
func (t *Transcript) Index(e domain.Entry) error {
	if e.Type != domain.EntryText {
		return nil
	}

	doc := bluge.NewDocument(e.ID.String()).
		AddField(bluge.NewTextField("author", e.Author).StoreValue()).
		AddField(bluge.NewTextField("value", e.Value).StoreValue())

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writer.Update(doc.ID(), doc)
}

// Find runs a parsed query against the index.
func (t *Transcript) Find(ctx context.Context, query *Query) ([]Match, error) {
	t.mu.Lock()
	reader, err := t.writer.Reader()
	t.mu.Unlock()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	boolean := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(query.Terms).SetField("value"))
	if query.Author != "" {
		boolean.AddMust(bluge.NewMatchQuery(query.Author).SetField("author"))
	}

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(query.Limit, boolean))
	if err != nil {
		return nil, err
	}

	var matches []Match
	for {
		next, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if next == nil {
			return matches, nil
		}

		var match Match
		err = next.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				match.ID = string(value)
			case "author":
				match.Author = string(value)
			case "value":
				match.Value = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
}

// Reset discards the whole index, used when the room is torn down. The
// in-memory writer is simply replaced.
func (t *Transcript) Reset() error {
	fresh, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return err
	}

	t.mu.Lock()
	old := t.writer
	t.writer = fresh
	t.mu.Unlock()
	return old.Close()
}

func (t *Transcript) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writer.Close()
}
