package sink

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shadowmint/loghaul"
	"github.com/shadowmint/loghaul/metrics"
)

// MongoTarget inserts every Data record as a document, wrapped as
// {message: <record>, receivedAt: <time>}.
type MongoTarget struct {
	collection *mongo.Collection
	label      string
}

// NewMongoTarget builds a MongoTarget writing into collection. label is
// used purely to tag metrics (e.g. "<db>.<collection>").
func NewMongoTarget(collection *mongo.Collection, label string) *MongoTarget {
	return &MongoTarget{collection: collection, label: label}
}

type mongoRecord struct {
	Message    []byte    `bson:"message"`
	ReceivedAt time.Time `bson:"receivedAt"`
}

// Consume implements loghaul.Target. NoData and EOF tags are ignored.
func (t *MongoTarget) Consume(entry loghaul.StreamEntry, data []byte) error {
	if entry != loghaul.StreamEntryData {
		return nil
	}
	doc := mongoRecord{Message: append([]byte(nil), data...), ReceivedAt: time.Now()}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := t.collection.InsertOne(ctx, doc); err != nil {
		metrics.LogErrors.WithLabelValues(t.label).Inc()
		return err
	}
	metrics.LogLines.WithLabelValues(t.label).Inc()
	return nil
}
