package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/huellitas/vetrecords/internal/core/domain"
)

const collectionAppointments = "appointments"

type AppointmentRepository struct {
	coll *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{coll: db.Collection(collectionAppointments)}
}

type appointmentDocument struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	Service string             `bson:"service"`
	Date    string             `bson:"date"`
	Time    string             `bson:"time"`
	Pet     string             `bson:"pet"`
	Owner   string             `bson:"owner"`
}

func (d appointmentDocument) toDomain() *domain.Appointment {
	return &domain.Appointment{
		ID:      d.ID.Hex(),
		Service: domain.AppointmentService(d.Service),
		Date:    d.Date,
		Time:    d.Time,
		Pet:     d.Pet,
		Owner:   d.Owner,
	}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := appointmentDocument{
		Service: string(a.Service),
		Date:    a.Date,
		Time:    a.Time,
		Pet:     a.Pet,
		Owner:   a.Owner,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert appointment: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc appointmentDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("find appointment: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns every appointment in calendar order. Date and time layouts
// are zero-padded, so lexical order is chronological.
func (r *AppointmentRepository) List(ctx context.Context) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sort := bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []appointmentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode appointments: %w", err)
	}

	out := make([]*domain.Appointment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, a *domain.Appointment) error {
	oid, ok := objectID(a.ID)
	if !ok {
		return domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"service": string(a.Service),
		"date":    a.Date,
		"time":    a.Time,
		"pet":     a.Pet,
		"owner":   a.Owner,
	}})
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrAppointmentNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}
