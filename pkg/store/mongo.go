package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/spectromap/pkg/cache"
	"github.com/matzehuels/spectromap/pkg/errors"
	"github.com/matzehuels/spectromap/pkg/spectro"
)

// Collection names.
const (
	CollectionRecordings          = "recordings"
	CollectionAnnotations         = "annotations"
	CollectionTemporalAnnotations = "temporal_annotations"
)

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI      string
	Database string
	Backoff  cache.Backoff
}

// MongoStore keeps recordings in MongoDB. Pulses live in "annotations" and
// sequences in "temporal_annotations", keyed by recording_id and id.
type MongoStore struct {
	client      *mongo.Client
	recordings  *mongo.Collection
	annotations *mongo.Collection
	temporal    *mongo.Collection
	now         func() time.Time
}

// NewMongoStore connects, pings and ensures the annotation indexes exist.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect mongo")
	}
	if opts.Backoff.Attempts == 0 {
		opts.Backoff = cache.DefaultBackoff
	}
	err = cache.RetryWithBackoff(ctx, opts.Backoff, func() error {
		return cache.Retryable(client.Ping(ctx, nil))
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongo")
	}

	db := client.Database(opts.Database)
	s := &MongoStore{
		client:      client,
		recordings:  db.Collection(CollectionRecordings),
		annotations: db.Collection(CollectionAnnotations),
		temporal:    db.Collection(CollectionTemporalAnnotations),
		now:         time.Now,
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "recording_id", Value: 1}, {Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	for _, c := range []*mongo.Collection{s.annotations, s.temporal} {
		if _, err := c.Indexes().CreateOne(ctx, idx); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "create index on %s", c.Name())
		}
	}
	return nil
}

func (s *MongoStore) Recording(ctx context.Context, id string) (Recording, error) {
	if err := errors.ValidateRecordingID(id); err != nil {
		return Recording{}, err
	}

	var doc recordingDoc
	err := s.recordings.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return Recording{}, errors.New(errors.ErrCodeNotFound, "recording %q not found", id)
	}
	if err != nil {
		return Recording{}, errors.Wrap(errors.ErrCodeInternal, err, "find recording %q", id)
	}

	byRecording := bson.M{"recording_id": id}
	sortByID := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})

	var pulses []pulseDoc
	cur, err := s.annotations.Find(ctx, byRecording, sortByID)
	if err == nil {
		err = cur.All(ctx, &pulses)
	}
	if err != nil {
		return Recording{}, errors.Wrap(errors.ErrCodeInternal, err, "find annotations of %q", id)
	}

	var sequences []sequenceDoc
	cur, err = s.temporal.Find(ctx, byRecording, sortByID)
	if err == nil {
		err = cur.All(ctx, &sequences)
	}
	if err != nil {
		return Recording{}, errors.Wrap(errors.ErrCodeInternal, err, "find temporal annotations of %q", id)
	}

	return doc.recording(pulses, sequences), nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	cur, err := s.recordings.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list recordings")
	}
	var docs []recordingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode recordings")
	}

	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		sum := d.recording(nil, nil).Summarize()
		filter := bson.M{"recording_id": d.ID}
		n, err := s.annotations.CountDocuments(ctx, filter)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "count annotations of %q", d.ID)
		}
		m, err := s.temporal.CountDocuments(ctx, filter)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "count temporal annotations of %q", d.ID)
		}
		sum.Pulses, sum.Sequences = int(n), int(m)
		out = append(out, sum)
	}
	return out, nil
}

func (s *MongoStore) Put(ctx context.Context, r Recording) error {
	if err := errors.ValidateRecordingID(r.ID); err != nil {
		return err
	}
	r.UpdatedAt = s.now().UTC()

	_, err := s.recordings.ReplaceOne(ctx, bson.M{"_id": r.ID}, newRecordingDoc(r), options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "put recording %q", r.ID)
	}

	filter := bson.M{"recording_id": r.ID}
	if _, err := s.annotations.DeleteMany(ctx, filter); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "clear annotations of %q", r.ID)
	}
	if _, err := s.temporal.DeleteMany(ctx, filter); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "clear temporal annotations of %q", r.ID)
	}

	if len(r.Pulses) > 0 {
		docs := make([]any, len(r.Pulses))
		for i, p := range r.Pulses {
			docs[i] = newPulseDoc(r.ID, p)
		}
		if _, err := s.annotations.InsertMany(ctx, docs); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "insert annotations of %q", r.ID)
		}
	}
	if len(r.Sequences) > 0 {
		docs := make([]any, len(r.Sequences))
		for i, seq := range r.Sequences {
			docs[i] = newSequenceDoc(r.ID, seq)
		}
		if _, err := s.temporal.InsertMany(ctx, docs); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "insert temporal annotations of %q", r.ID)
		}
	}
	return nil
}

func (s *MongoStore) UpdatePulse(ctx context.Context, recordingID string, p spectro.Pulse) error {
	return s.replace(ctx, s.annotations, recordingID, p.ID, newPulseDoc(recordingID, p))
}

func (s *MongoStore) UpdateSequence(ctx context.Context, recordingID string, seq spectro.Sequence) error {
	return s.replace(ctx, s.temporal, recordingID, seq.ID, newSequenceDoc(recordingID, seq))
}

func (s *MongoStore) replace(ctx context.Context, c *mongo.Collection, recordingID string, id int64, doc any) error {
	if err := errors.ValidateRecordingID(recordingID); err != nil {
		return err
	}
	res, err := c.ReplaceOne(ctx, bson.M{"recording_id": recordingID, "id": id}, doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "update %s %d of %q", c.Name(), id, recordingID)
	}
	if res.MatchedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "annotation %d not found in recording %q", id, recordingID)
	}
	_, err = s.recordings.UpdateOne(ctx, bson.M{"_id": recordingID}, bson.M{"$set": bson.M{"updated_at": s.now().UTC()}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "touch recording %q", recordingID)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

var _ Store = (*MongoStore)(nil)
