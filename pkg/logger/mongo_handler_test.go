package logger

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeCollection struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (f *fakeCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	col := &fakeCollection{}
	h := newMongoHandler(col, nil)

	log := slog.New(h).With("request_id", "abc123").WithGroup("product")
	log.Info("created", "id", 7)
	h.Close()
	h.Close()

	require.Len(t, col.docs, 1)
	doc := col.docs[0]
	assert.Equal(t, "created", doc.Msg)
	assert.Equal(t, "INFO", doc.Level)
	assert.Equal(t, "abc123", doc.RequestID)
	assert.EqualValues(t, 7, doc.Attrs["product.id"])
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	col := &fakeCollection{}
	mh := newMongoHandler(col, nil)
	info := slog.NewTextHandler(discard{}, &slog.HandlerOptions{Level: slog.LevelError})

	multi := NewMultiHandler(info, mh)
	assert.True(t, multi.Enabled(context.Background(), slog.LevelDebug))

	slog.New(multi).Debug("only mongo sees this")
	mh.Close()

	require.Len(t, col.docs, 1)
	assert.Equal(t, "only mongo sees this", col.docs[0].Msg)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
